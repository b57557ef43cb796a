package memory

import (
	"context"
	"sort"

	"github.com/Freeeeeet/student_records/internal/model"
)

type TestRecordRepository struct{ s *Store }

func (r *TestRecordRepository) filter(keep func(model.TestRecord) bool) []*model.TestRecord {
	out := []*model.TestRecord{}
	for _, rec := range r.s.d.records {
		if keep(rec) {
			rec := rec
			out = append(out, &rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *TestRecordRepository) Create(ctx context.Context, rec *model.TestRecord) error {
	unlock, err := r.s.begin(ctx, "records.Create")
	if err != nil {
		return err
	}
	defer unlock()

	rec.ID = r.s.id()
	rec.CreatedAt = r.s.Now()
	rec.UpdatedAt = rec.CreatedAt
	r.s.d.records[rec.ID] = *rec
	return r.s.after(ctx, "records.Create")
}

func (r *TestRecordRepository) GetForUpdate(ctx context.Context, id int64) (*model.TestRecord, error) {
	unlock, err := r.s.begin(ctx, "records.GetForUpdate")
	if err != nil {
		return nil, err
	}
	defer unlock()

	rec, ok := r.s.d.records[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *TestRecordRepository) Update(ctx context.Context, rec *model.TestRecord) error {
	unlock, err := r.s.begin(ctx, "records.Update")
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := r.s.d.records[rec.ID]; !ok {
		return errNotFound
	}
	rec.UpdatedAt = r.s.Now()
	r.s.d.records[rec.ID] = *rec
	return r.s.after(ctx, "records.Update")
}

func (r *TestRecordRepository) List(ctx context.Context) ([]*model.TestRecord, error) {
	unlock, err := r.s.begin(ctx, "records.List")
	if err != nil {
		return nil, err
	}
	defer unlock()

	return r.filter(func(model.TestRecord) bool { return true }), nil
}

func (r *TestRecordRepository) ListByTest(ctx context.Context, testID int64) ([]*model.TestRecord, error) {
	unlock, err := r.s.begin(ctx, "records.ListByTest")
	if err != nil {
		return nil, err
	}
	defer unlock()

	return r.filter(func(rec model.TestRecord) bool { return rec.TestID == testID }), nil
}

func (r *TestRecordRepository) ListByStudent(ctx context.Context, studentID int64) ([]*model.TestRecord, error) {
	unlock, err := r.s.begin(ctx, "records.ListByStudent")
	if err != nil {
		return nil, err
	}
	defer unlock()

	return r.filter(func(rec model.TestRecord) bool { return rec.StudentID == studentID }), nil
}

func (r *TestRecordRepository) Exists(ctx context.Context, testID, studentID int64) (bool, error) {
	unlock, err := r.s.begin(ctx, "records.Exists")
	if err != nil {
		return false, err
	}
	defer unlock()

	for _, rec := range r.s.d.records {
		if rec.TestID == testID && rec.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (r *TestRecordRepository) LockScore(ctx context.Context, testID, studentID int64) error {
	unlock, err := r.s.begin(ctx, "records.LockScore")
	if err != nil {
		return err
	}
	unlock()
	return nil
}

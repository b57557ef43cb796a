package memory

import (
	"context"
	"sort"
	"time"

	"github.com/Freeeeeet/student_records/internal/model"
)

type MembershipRepository struct{ s *Store }

func (r *MembershipRepository) sorted() []model.Membership {
	out := make([]model.Membership, 0, len(r.s.d.memberships))
	for _, m := range r.s.d.memberships {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *MembershipRepository) ListActive(ctx context.Context, batchID *int64) ([]*model.Membership, error) {
	unlock, err := r.s.begin(ctx, "memberships.ListActive")
	if err != nil {
		return nil, err
	}
	defer unlock()

	var out []*model.Membership
	for _, m := range r.sorted() {
		if !isActive(r.s.d, m.StudentID) {
			continue
		}
		if batchID != nil && m.BatchID != *batchID {
			continue
		}
		m := m
		out = append(out, &m)
	}
	return out, nil
}

func (r *MembershipRepository) detail(m model.Membership) *model.MembershipDetail {
	u := r.s.d.users[m.StudentID]
	return &model.MembershipDetail{
		StudentID:   m.StudentID,
		BatchID:     m.BatchID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Status:      u.Status,
	}
}

func (r *MembershipRepository) ListDetailedByBatch(ctx context.Context, batchID int64) ([]*model.MembershipDetail, error) {
	unlock, err := r.s.begin(ctx, "memberships.ListDetailedByBatch")
	if err != nil {
		return nil, err
	}
	defer unlock()

	var out []*model.MembershipDetail
	for _, m := range r.sorted() {
		if m.BatchID == batchID && isActive(r.s.d, m.StudentID) {
			out = append(out, r.detail(m))
		}
	}
	return out, nil
}

func (r *MembershipRepository) SearchByStudent(ctx context.Context, studentID int64) ([]*model.MembershipDetail, error) {
	unlock, err := r.s.begin(ctx, "memberships.SearchByStudent")
	if err != nil {
		return nil, err
	}
	defer unlock()

	var out []*model.MembershipDetail
	for _, m := range r.sorted() {
		if m.StudentID == studentID && isActive(r.s.d, m.StudentID) {
			out = append(out, r.detail(m))
		}
	}
	return out, nil
}

func (r *MembershipRepository) Create(ctx context.Context, m *model.Membership) error {
	unlock, err := r.s.begin(ctx, "memberships.Create")
	if err != nil {
		return err
	}
	defer unlock()

	m.ID = r.s.id()
	m.CreatedAt = r.s.Now()
	r.s.d.memberships[m.ID] = *m
	return r.s.after(ctx, "memberships.Create")
}

func (r *MembershipRepository) GetForUpdate(ctx context.Context, studentID, batchID int64) (*model.Membership, error) {
	unlock, err := r.s.begin(ctx, "memberships.GetForUpdate")
	if err != nil {
		return nil, err
	}
	defer unlock()

	for _, m := range r.sorted() {
		if m.StudentID == studentID && m.BatchID == batchID {
			m := m
			return &m, nil
		}
	}
	return nil, nil
}

func (r *MembershipRepository) UpdateBatch(ctx context.Context, id, newBatchID int64) error {
	unlock, err := r.s.begin(ctx, "memberships.UpdateBatch")
	if err != nil {
		return err
	}
	defer unlock()

	m, ok := r.s.d.memberships[id]
	if !ok {
		return errNotFound
	}
	m.BatchID = newBatchID
	r.s.d.memberships[id] = m
	return r.s.after(ctx, "memberships.UpdateBatch")
}

func (r *MembershipRepository) Delete(ctx context.Context, studentID, batchID int64) (int64, error) {
	unlock, err := r.s.begin(ctx, "memberships.Delete")
	if err != nil {
		return 0, err
	}
	defer unlock()

	var deleted int64
	for id, m := range r.s.d.memberships {
		if m.StudentID == studentID && m.BatchID == batchID {
			delete(r.s.d.memberships, id)
			deleted++
		}
	}
	return deleted, r.s.after(ctx, "memberships.Delete")
}

func (r *MembershipRepository) ExistsForStudent(ctx context.Context, studentID int64) (bool, error) {
	unlock, err := r.s.begin(ctx, "memberships.ExistsForStudent")
	if err != nil {
		return false, err
	}
	defer unlock()

	for _, m := range r.s.d.memberships {
		if m.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

// LockStudent транзакции и так сериализованы
func (r *MembershipRepository) LockStudent(ctx context.Context, studentID int64) error {
	unlock, err := r.s.begin(ctx, "memberships.LockStudent")
	if err != nil {
		return err
	}
	unlock()
	return nil
}

func (r *MembershipRepository) CountByBatch(ctx context.Context) ([]model.BatchCount, error) {
	unlock, err := r.s.begin(ctx, "memberships.CountByBatch")
	if err != nil {
		return nil, err
	}
	defer unlock()

	counts := map[int64]int64{}
	var order []int64
	for _, m := range r.sorted() {
		if !isActive(r.s.d, m.StudentID) {
			continue
		}
		if _, seen := counts[m.BatchID]; !seen {
			order = append(order, m.BatchID)
		}
		counts[m.BatchID]++
	}

	out := []model.BatchCount{}
	for _, batchID := range order {
		out = append(out, model.BatchCount{BatchID: batchID, StudentCount: counts[batchID]})
	}
	return out, nil
}

func (r *MembershipRepository) CountForBatch(ctx context.Context, batchID int64) (int64, error) {
	unlock, err := r.s.begin(ctx, "memberships.CountForBatch")
	if err != nil {
		return 0, err
	}
	defer unlock()

	var count int64
	for _, m := range r.s.d.memberships {
		if m.BatchID == batchID && isActive(r.s.d, m.StudentID) {
			count++
		}
	}
	return count, nil
}

func (r *MembershipRepository) CountByDate(ctx context.Context, batchID int64) ([]model.DateCount, error) {
	unlock, err := r.s.begin(ctx, "memberships.CountByDate")
	if err != nil {
		return nil, err
	}
	defer unlock()

	counts := map[time.Time]int64{}
	for _, m := range r.s.d.memberships {
		if m.BatchID != batchID || !isActive(r.s.d, m.StudentID) {
			continue
		}
		y, mon, d := m.CreatedAt.Date()
		counts[time.Date(y, mon, d, 0, 0, 0, 0, time.UTC)]++
	}

	out := []model.DateCount{}
	for day, n := range counts {
		out = append(out, model.DateCount{Date: day, StudentCount: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

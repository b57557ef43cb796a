package memory

import (
	"context"
	"sort"

	"github.com/Freeeeeet/student_records/internal/model"
)

type FeeRepository struct{ s *Store }

func (r *FeeRepository) List(ctx context.Context) ([]*model.FeeStatus, error) {
	unlock, err := r.s.begin(ctx, "fees.List")
	if err != nil {
		return nil, err
	}
	defer unlock()

	out := make([]*model.FeeStatus, 0, len(r.s.d.fees))
	for _, f := range r.s.d.fees {
		f := copyFee(f)
		out = append(out, &f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *FeeRepository) GetByID(ctx context.Context, id int64) (*model.FeeStatus, error) {
	unlock, err := r.s.begin(ctx, "fees.GetByID")
	if err != nil {
		return nil, err
	}
	defer unlock()

	f, ok := r.s.d.fees[id]
	if !ok {
		return nil, nil
	}
	f = copyFee(f)
	return &f, nil
}

func (r *FeeRepository) GetForUpdate(ctx context.Context, id int64) (*model.FeeStatus, error) {
	return r.GetByID(ctx, id)
}

func (r *FeeRepository) Create(ctx context.Context, fee *model.FeeStatus) error {
	unlock, err := r.s.begin(ctx, "fees.Create")
	if err != nil {
		return err
	}
	defer unlock()

	fee.ID = r.s.id()
	fee.CreatedAt = r.s.Now()
	fee.UpdatedAt = fee.CreatedAt
	r.s.d.fees[fee.ID] = copyFee(*fee)
	return r.s.after(ctx, "fees.Create")
}

func (r *FeeRepository) Update(ctx context.Context, fee *model.FeeStatus) error {
	unlock, err := r.s.begin(ctx, "fees.Update")
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := r.s.d.fees[fee.ID]; !ok {
		return errNotFound
	}
	fee.UpdatedAt = r.s.Now()
	r.s.d.fees[fee.ID] = copyFee(*fee)
	return r.s.after(ctx, "fees.Update")
}

func (r *FeeRepository) Delete(ctx context.Context, id int64) error {
	unlock, err := r.s.begin(ctx, "fees.Delete")
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := r.s.d.fees[id]; !ok {
		return errNotFound
	}
	delete(r.s.d.fees, id)
	return r.s.after(ctx, "fees.Delete")
}

package receipt

import (
	"context"
	"sort"
)

type StubReceiptRepo struct {
	data map[string]Receipt
}

func NewStubReceiptRepo() *StubReceiptRepo {
	return &StubReceiptRepo{data: map[string]Receipt{}}
}

func (s *StubReceiptRepo) Store(ctx context.Context, ownerId string, receipt Receipt) error {
	s.data[receipt.ID] = receipt
	return nil
}

func (s *StubReceiptRepo) Get(ctx context.Context, ownerId string, id string) (Receipt, error) {
	rec, ok := s.data[id]
	if !ok {
		return Receipt{}, ErrReceiptNotFound
	}
	return rec, nil
}

func (s *StubReceiptRepo) GetAll(ctx context.Context, ownerId string) ([]Receipt, error) {
	receipts := make([]Receipt, 0, len(s.data))
	for _, rec := range s.data {
		receipts = append(receipts, rec)
	}
	sort.Slice(receipts, func(i, j int) bool {
		return receipts[i].CreatedAt.After(receipts[j].CreatedAt)
	})
	return receipts, nil
}

func (s *StubReceiptRepo) Update(ctx context.Context, ownerId string, receipt Receipt) (bool, error) {
	if _, ok := s.data[receipt.ID]; !ok {
		return false, nil
	}
	s.data[receipt.ID] = receipt
	return true, nil
}

func (s *StubReceiptRepo) Delete(ctx context.Context, ownerId string, id string) (bool, error) {
	if _, ok := s.data[id]; !ok {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *StubReceiptRepo) Cleanup() {
	s.data = map[string]Receipt{}
}

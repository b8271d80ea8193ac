package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
	"github.com/tuanvumaihuynh/retail-pos/internal/model"
	"github.com/tuanvumaihuynh/retail-pos/internal/repository"
	"github.com/tuanvumaihuynh/retail-pos/internal/storage/db"
)

var discardLogger = slog.New(slog.DiscardHandler)

// fakeDB runs transactions inline. Only WithTx is usable.
type fakeDB struct {
	db.DB
	txs int
}

func (f *fakeDB) WithTx(_ context.Context, fn func(db.DB) error) error {
	f.txs++
	return fn(f)
}

type fakeOutbox struct {
	repository.OutboxMsgRepository
	mu   sync.Mutex
	msgs []repository.CreateOutboxMsgParams
	err  error
}

func (f *fakeOutbox) WithDB(db.DB) repository.OutboxMsgRepository { return f }

func (f *fakeOutbox) CreateOutboxMsg(_ context.Context, params repository.CreateOutboxMsgParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, params)
	return nil
}

func (f *fakeOutbox) topics() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	topics := make([]string, 0, len(f.msgs))
	for _, m := range f.msgs {
		topics = append(topics, m.Topic)
	}
	return topics
}

func decodePayload[T any](raw json.RawMessage) T {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		panic(err)
	}
	return v
}

type fakeSaleRepo struct {
	repository.SaleRepository
	inserted []model.Sale
	items    [][]model.SaleItem
	err      error
}

func (f *fakeSaleRepo) WithDB(db.DB) repository.SaleRepository { return f }

func (f *fakeSaleRepo) InsertSale(_ context.Context, sale model.Sale, items []model.SaleItem) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, sale)
	f.items = append(f.items, items)
	return nil
}

type fakeTransferRepo struct {
	repository.TransferRepository
	inserted   []model.Transfer
	productIDs [][]uuid.UUID
	err        error
}

func (f *fakeTransferRepo) WithDB(db.DB) repository.TransferRepository { return f }

func (f *fakeTransferRepo) InsertTransfer(_ context.Context, t model.Transfer, ids []uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, t)
	f.productIDs = append(f.productIDs, ids)
	return nil
}

type fakeProductRepo struct {
	repository.ProductRepository
	products    map[uuid.UUID]model.Product
	detached    []uuid.UUID
	incremented map[uuid.UUID]int
	incrErr     error
}

func newFakeProductRepo(products ...model.Product) *fakeProductRepo {
	f := &fakeProductRepo{
		products:    map[uuid.UUID]model.Product{},
		incremented: map[uuid.UUID]int{},
	}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProductRepo) WithDB(db.DB) repository.ProductRepository { return f }

func (f *fakeProductRepo) CreateProduct(_ context.Context, p model.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) UpdateProduct(_ context.Context, p model.Product) error {
	if _, ok := f.products[p.ID]; !ok {
		return apperr.ErrProductNotFound
	}
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) DeactivateProduct(_ context.Context, id uuid.UUID) error {
	p, ok := f.products[id]
	if !ok {
		return apperr.ErrProductNotFound
	}
	p.Active = false
	f.products[id] = p
	return nil
}

func (f *fakeProductRepo) GetProduct(_ context.Context, id uuid.UUID) (model.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return model.Product{}, apperr.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) ListProductsByCode(_ context.Context, code string) ([]model.Product, error) {
	var out []model.Product
	for _, p := range f.products {
		for _, c := range p.Codes() {
			if strings.EqualFold(c, code) {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeProductRepo) SetImageURL(_ context.Context, id uuid.UUID, url string) error {
	p, ok := f.products[id]
	if !ok {
		return apperr.ErrProductNotFound
	}
	p.ImageURL = url
	f.products[id] = p
	return nil
}

func (f *fakeProductRepo) DetachStore(_ context.Context, storeID uuid.UUID) (int64, error) {
	f.detached = append(f.detached, storeID)
	var n int64
	for id, p := range f.products {
		if p.InStore(storeID) {
			p.StoreID = nil
			f.products[id] = p
			n++
		}
	}
	return n, nil
}

func (f *fakeProductRepo) IncrementStock(_ context.Context, id uuid.UUID, qty int) error {
	if f.incrErr != nil {
		return f.incrErr
	}
	f.incremented[id] += qty
	return nil
}

type fakeStoreRepo struct {
	repository.StoreRepository
	stores    map[uuid.UUID]model.Store
	deleteErr error
}

func (f *fakeStoreRepo) WithDB(db.DB) repository.StoreRepository { return f }

func (f *fakeStoreRepo) DeleteStore(_ context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.stores[id]; !ok {
		return apperr.ErrStoreNotFound
	}
	delete(f.stores, id)
	return nil
}

type fakeEmployeeRepo struct {
	repository.EmployeeRepository
	byUsername map[string]model.Employee
}

func (f *fakeEmployeeRepo) CreateEmployee(_ context.Context, e model.Employee) error {
	if _, ok := f.byUsername[e.Username]; ok {
		return apperr.ErrUsernameTaken
	}
	f.byUsername[e.Username] = e
	return nil
}

func (f *fakeEmployeeRepo) GetEmployeeByUsername(_ context.Context, username string) (model.Employee, error) {
	e, ok := f.byUsername[username]
	if !ok {
		return model.Employee{}, apperr.ErrEmployeeNotFound
	}
	return e, nil
}

type fakePurchaseOrderRepo struct {
	repository.PurchaseOrderRepository
	orders map[uuid.UUID]model.PurchaseOrder
}

func (f *fakePurchaseOrderRepo) WithDB(db.DB) repository.PurchaseOrderRepository { return f }

func (f *fakePurchaseOrderRepo) CreatePurchaseOrder(_ context.Context, o model.PurchaseOrder) error {
	f.orders[o.ID] = o
	return nil
}

func (f *fakePurchaseOrderRepo) GetPurchaseOrder(_ context.Context, id uuid.UUID) (model.PurchaseOrder, error) {
	o, ok := f.orders[id]
	if !ok {
		return model.PurchaseOrder{}, apperr.ErrPurchaseOrderNotFound
	}
	return o, nil
}

func (f *fakePurchaseOrderRepo) UpdatePurchaseOrderStatus(
	_ context.Context, id uuid.UUID, from, to model.PurchaseOrderStatus,
) (bool, error) {
	o, ok := f.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	f.orders[id] = o
	return true, nil
}

type fakeUploader struct {
	bucket, name string
	body         []byte
	err          error
}

func (f *fakeUploader) Upload(_ context.Context, bucket, name string, content io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	body, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	f.bucket, f.name, f.body = bucket, name, body
	return "http://files.test/" + bucket + "/" + name, nil
}

package shared

import (
	"context"

	"github.com/koifarm/backend/internal/domain/catalog"
	"github.com/koifarm/backend/internal/domain/consignment"
	"github.com/koifarm/backend/internal/domain/identity"
	"github.com/koifarm/backend/internal/domain/trade"
)

// TransactionScope runs a unit of work atomically. Every repository handed
// to fn shares the same database transaction; returning an error from fn
// rolls all of their writes back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories bound to one transaction.
// Reads made through the ...ForUpdate finders hold row locks until commit.
type TransactionalRepositories interface {
	Categories() catalog.CategoryRepository
	ProductItems() catalog.ProductItemRepository
	Users() identity.UserRepository
	Consignments() consignment.ConsignmentRepository
	ConsignmentItems() consignment.ItemRepository
	Orders() trade.OrderRepository
	Carts() trade.CartRepository
	Promotions() trade.PromotionRepository
}

// Repositories is a plain set of repositories. As a TransactionScope it runs
// fn without a transaction, which is what service tests with mocks need.
type Repositories struct {
	CategoryRepo        catalog.CategoryRepository
	ProductItemRepo     catalog.ProductItemRepository
	UserRepo            identity.UserRepository
	ConsignmentRepo     consignment.ConsignmentRepository
	ConsignmentItemRepo consignment.ItemRepository
	OrderRepo           trade.OrderRepository
	CartRepo            trade.CartRepository
	PromotionRepo       trade.PromotionRepository
}

// Execute calls fn with the repositories themselves
func (r *Repositories) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(r)
}

func (r *Repositories) Categories() catalog.CategoryRepository { return r.CategoryRepo }
func (r *Repositories) ProductItems() catalog.ProductItemRepository { return r.ProductItemRepo }
func (r *Repositories) Users() identity.UserRepository { return r.UserRepo }
func (r *Repositories) Consignments() consignment.ConsignmentRepository { return r.ConsignmentRepo }
func (r *Repositories) ConsignmentItems() consignment.ItemRepository { return r.ConsignmentItemRepo }
func (r *Repositories) Orders() trade.OrderRepository { return r.OrderRepo }
func (r *Repositories) Carts() trade.CartRepository { return r.CartRepo }
func (r *Repositories) Promotions() trade.PromotionRepository { return r.PromotionRepo }

var (
	_ TransactionScope          = (*Repositories)(nil)
	_ TransactionalRepositories = (*Repositories)(nil)
)

// Package repository provides hand-written test doubles for the persistence
// interfaces.
package repository

import (
	"context"

	"storefront/internal/domain/repository"
)

// MockTransactionManager stands in for a real transaction: it runs the
// closure against a fixed factory. Set Err to simulate a transaction that
// fails before the closure runs.
type MockTransactionManager struct {
	Factory repository.RepositoryFactory
	Err     error
}

func (m *MockTransactionManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	if m.Err != nil {
		return m.Err
	}

	return fn(m.Factory)
}

// MockRepositoryFactory hands out the repositories it was built with.
// Unset fields yield nil, which makes an unexpected repository use panic
// loudly in tests.
type MockRepositoryFactory struct {
	Users     repository.UserRepository
	Addresses repository.AddressRepository
	Products  repository.ProductRepository
	Carts     repository.CartRepository
	Orders    repository.OrderRepository
	Refunds   repository.RefundRepository
}

func (f *MockRepositoryFactory) NewUserRepository() repository.UserRepository {
	return f.Users
}

func (f *MockRepositoryFactory) NewAddressRepository() repository.AddressRepository {
	return f.Addresses
}

func (f *MockRepositoryFactory) NewProductRepository() repository.ProductRepository {
	return f.Products
}

func (f *MockRepositoryFactory) NewCartRepository() repository.CartRepository {
	return f.Carts
}

func (f *MockRepositoryFactory) NewOrderRepository() repository.OrderRepository {
	return f.Orders
}

func (f *MockRepositoryFactory) NewRefundRepository() repository.RefundRepository {
	return f.Refunds
}

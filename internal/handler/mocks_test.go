package handler

import (
	"context"
	"net/http"

	"storefront-cart/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) GetProduct(ctx context.Context, productID string) (*model.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

// MockCartService is a mock implementation of CartService.
type MockCartService struct {
	mock.Mock
}

func snapshotResult(args mock.Arguments) (*model.CartSnapshot, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartSnapshot), args.Error(1)
}

func (m *MockCartService) GetCart(ctx context.Context, userID string) (*model.CartSnapshot, error) {
	return snapshotResult(m.Called(ctx, userID))
}

func (m *MockCartService) CountItems(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, userID string, req *model.AddItemRequest) (*model.CartSnapshot, error) {
	return snapshotResult(m.Called(ctx, userID, req))
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID string, lineItemID uuid.UUID) (*model.CartSnapshot, error) {
	return snapshotResult(m.Called(ctx, userID, lineItemID))
}

func (m *MockCartService) ApplyCoupon(ctx context.Context, userID, code string) (*model.CartSnapshot, error) {
	return snapshotResult(m.Called(ctx, userID, code))
}

func (m *MockCartService) RemoveCoupon(ctx context.Context, userID string) (*model.CartSnapshot, error) {
	return snapshotResult(m.Called(ctx, userID))
}

// MockCouponService is a mock implementation of CouponService.
type MockCouponService struct {
	mock.Mock
}

func viewResult(args mock.Arguments) (*model.CouponView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CouponView), args.Error(1)
}

func (m *MockCouponService) List(ctx context.Context, filter model.CouponFilter) ([]model.CouponView, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CouponView), args.Error(1)
}

func (m *MockCouponService) GetByID(ctx context.Context, id uuid.UUID) (*model.CouponView, error) {
	return viewResult(m.Called(ctx, id))
}

func (m *MockCouponService) GetByCode(ctx context.Context, code string) (*model.CouponView, error) {
	return viewResult(m.Called(ctx, code))
}

func (m *MockCouponService) Create(ctx context.Context, req *model.CouponRequest) (*model.CouponView, error) {
	return viewResult(m.Called(ctx, req))
}

func (m *MockCouponService) Update(ctx context.Context, id uuid.UUID, req *model.CouponRequest) (*model.CouponView, error) {
	return viewResult(m.Called(ctx, id, req))
}

func (m *MockCouponService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// withURLParams attaches chi route parameters to req.
func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

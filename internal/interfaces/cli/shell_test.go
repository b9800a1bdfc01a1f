package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/merrysway/storefront/internal/application/cart"
	"github.com/merrysway/storefront/internal/application/storefront"
	"github.com/merrysway/storefront/internal/domain/catalog"
	"github.com/merrysway/storefront/internal/domain/chat"
	"github.com/merrysway/storefront/internal/domain/order"
)

type MockFrontend struct {
	mock.Mock
}

func (m *MockFrontend) Register(ctx context.Context, username, email, password string) error {
	return m.Called(ctx, username, email, password).Error(0)
}

func (m *MockFrontend) Login(ctx context.Context, email, password string) error {
	return m.Called(ctx, email, password).Error(0)
}

func (m *MockFrontend) Logout() {
	m.Called()
}

func (m *MockFrontend) LoggedIn() bool {
	return m.Called().Bool(0)
}

func (m *MockFrontend) Menu(ctx context.Context, filter catalog.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockFrontend) Ask(ctx context.Context, utterance string) (string, error) {
	args := m.Called(ctx, utterance)
	return args.String(0), args.Error(1)
}

func (m *MockFrontend) ChatHistory(ctx context.Context) ([]chat.Message, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]chat.Message), args.Error(1)
}

func (m *MockFrontend) OrderHistory(ctx context.Context) ([]order.ActiveOrder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.ActiveOrder), args.Error(1)
}

func (m *MockFrontend) Cart() cart.Cart {
	return m.Called().Get(0).(cart.Cart)
}

func (m *MockFrontend) AddToCart(product catalog.Product) error {
	return m.Called(product).Error(0)
}

func (m *MockFrontend) SetQuantity(name string, quantity int) {
	m.Called(name, quantity)
}

func (m *MockFrontend) RemoveFromCart(name string) {
	m.Called(name)
}

func (m *MockFrontend) ClearCart(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockFrontend) RefreshCart(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func product(name, category, price string) catalog.Product {
	return catalog.Product{Name: name, Category: category, Price: decimal.RequireFromString(price)}
}

func latteCart() cart.Cart {
	return cart.Cart{Lines: []cart.Line{{ProductName: "Latte", UnitPrice: decimal.RequireFromString("4.50"), Quantity: 2}}}
}

func newTestShell() (*Shell, *MockFrontend, *bytes.Buffer) {
	front := new(MockFrontend)
	out := new(bytes.Buffer)
	return NewShell(front, out, nil), front, out
}

func TestShell_Menu(t *testing.T) {
	ctx := context.Background()
	s, front, out := newTestShell()
	front.On("Menu", ctx, catalog.Filter{Category: "Coffee"}).
		Return([]catalog.Product{product("Latte", "Coffee", "4.5")}, nil)

	require.NoError(t, s.Exec(ctx, "menu Coffee"))

	assert.Contains(t, out.String(), "Latte")
	assert.Contains(t, out.String(), "$4.50")
	front.AssertExpectations(t)
}

func TestShell_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("exact match wins over other hits", func(t *testing.T) {
		s, front, out := newTestShell()
		latte := product("Latte", "Coffee", "4.50")
		front.On("Menu", ctx, catalog.Filter{Search: "latte"}).
			Return([]catalog.Product{product("Iced Latte", "Coffee", "5"), latte}, nil)
		front.On("AddToCart", latte).Return(nil)
		front.On("Cart").Return(latteCart())

		require.NoError(t, s.Exec(ctx, "add latte"))

		assert.Contains(t, out.String(), "2 x Latte")
		assert.Contains(t, out.String(), "subtotal $9.00")
		front.AssertExpectations(t)
	})

	t.Run("ambiguous search adds nothing", func(t *testing.T) {
		s, front, out := newTestShell()
		front.On("Menu", ctx, catalog.Filter{Search: "cake"}).
			Return([]catalog.Product{product("Carrot Cake", "Bakery", "4"), product("Cheese Cake", "Bakery", "4")}, nil)

		require.NoError(t, s.Exec(ctx, "add cake"))

		assert.Contains(t, out.String(), `No product named "cake"`)
		front.AssertNotCalled(t, "AddToCart", mock.Anything)
	})

	t.Run("logged out", func(t *testing.T) {
		s, front, out := newTestShell()
		latte := product("Latte", "Coffee", "4.50")
		front.On("Menu", ctx, catalog.Filter{Search: "Latte"}).Return([]catalog.Product{latte}, nil)
		front.On("AddToCart", latte).Return(storefront.ErrNotLoggedIn)

		require.NoError(t, s.Exec(ctx, "add Latte"))
		assert.Contains(t, out.String(), "Please log in first.")
	})
}

func TestShell_Quantity(t *testing.T) {
	ctx := context.Background()
	s, front, out := newTestShell()
	front.On("SetQuantity", "Flat White", 3).Return()
	front.On("Cart").Return(cart.Cart{})

	require.NoError(t, s.Exec(ctx, "qty 3 Flat White"))
	require.NoError(t, s.Exec(ctx, "qty three Flat White"))

	assert.Contains(t, out.String(), "usage: qty <n> <product>")
	front.AssertNumberOfCalls(t, "SetQuantity", 1)
}

func TestShell_OrderFailuresAreReportedGenerically(t *testing.T) {
	ctx := context.Background()
	s, front, out := newTestShell()
	front.On("ClearCart", ctx).Return(errors.New("storefrontapi: transport error"))
	front.On("RefreshCart", ctx).Return(errors.New("storefrontapi: rejected"))

	require.NoError(t, s.Exec(ctx, "clear"))
	require.NoError(t, s.Exec(ctx, "refresh"))

	assert.Equal(t, 2, strings.Count(out.String(), orderFailureMessage))
	assert.NotContains(t, out.String(), "transport")
}

func TestShell_Ask(t *testing.T) {
	ctx := context.Background()
	s, front, out := newTestShell()
	front.On("Ask", ctx, "two lattes please").Return("Added two lattes.", nil)
	front.On("Cart").Return(latteCart())

	require.NoError(t, s.Exec(ctx, "ask two lattes please"))

	assert.Contains(t, out.String(), "assistant: Added two lattes.")
	assert.Contains(t, out.String(), "2 x Latte")
}

func TestShell_History(t *testing.T) {
	ctx := context.Background()
	s, front, out := newTestShell()
	front.On("ChatHistory", ctx).Return([]chat.Message{
		{Role: chat.RoleUser, Content: "hi"},
		{Role: chat.RoleAssistant, Content: "hello"},
	}, nil)

	require.NoError(t, s.Exec(ctx, "history"))
	assert.Contains(t, out.String(), "user: hi\nassistant: hello\n")
}

func TestShell_Run(t *testing.T) {
	ctx := context.Background()
	s, front, out := newTestShell()
	front.On("LoggedIn").Return(false).Once()
	front.On("Login", ctx, "ana@example.com", "secret-pass").Return(nil)
	front.On("Cart").Return(cart.Cart{})
	front.On("LoggedIn").Return(true)

	input := strings.NewReader("login ana@example.com secret-pass\n\nfrobnicate\nquit\ncart\n")
	require.NoError(t, s.Run(ctx, input))

	output := out.String()
	assert.Contains(t, output, "Logged in.")
	assert.Contains(t, output, `Unknown command "frobnicate"`)
	assert.Contains(t, output, "merrysway> ")
	front.AssertNumberOfCalls(t, "Cart", 1)
}

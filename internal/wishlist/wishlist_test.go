package wishlist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bookstore/internal/cart"
	"github.com/Skotchmaster/bookstore/internal/errs"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/testutil"
)

type wishlistFixture struct {
	svc     *Service
	cartSvc *cart.Service
	db      *gorm.DB
	user    models.User
	book    models.Book
	soldOut models.Book
}

func newWishlistFixture(t *testing.T) *wishlistFixture {
	t.Helper()
	db := testutil.OpenDB(t)
	cartSvc := cart.NewService(db)
	fx := &wishlistFixture{svc: NewService(db, cartSvc), cartSvc: cartSvc, db: db}

	fx.user = models.User{Username: "alice", PasswordHash: "x", Role: "user"}
	testutil.MustCreate(t, db, &fx.user)

	pub := testutil.MustCreate(t, db, &models.Publisher{Name: "Эксмо"})
	fx.book = models.Book{Title: "Мастер и Маргарита", Price: 150, Stock: 4, PublisherID: &pub.ID}
	fx.soldOut = models.Book{Title: "Эдем", Price: 50, Stock: 0}
	testutil.MustCreate(t, db, &fx.book)
	testutil.MustCreate(t, db, &fx.soldOut)

	return fx
}

func TestAddAndGet(t *testing.T) {
	fx := newWishlistFixture(t)
	ctx := context.Background()

	item, err := fx.svc.Add(ctx, fx.user.ID, fx.book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Мастер и Маргарита", item.Book.Title)
	assert.Equal(t, "Эксмо", item.Book.Publisher)
	assert.True(t, item.Book.InStock)

	// a sold-out book can still be wished for
	soldOut, err := fx.svc.Add(ctx, fx.user.ID, fx.soldOut.ID)
	require.NoError(t, err)
	assert.False(t, soldOut.Book.InStock)

	items, err := fx.svc.Get(ctx, fx.user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestAddIsIdempotent(t *testing.T) {
	fx := newWishlistFixture(t)
	ctx := context.Background()

	first, err := fx.svc.Add(ctx, fx.user.ID, fx.book.ID)
	require.NoError(t, err)
	second, err := fx.svc.Add(ctx, fx.user.ID, fx.book.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	var n int64
	require.NoError(t, fx.db.Model(&models.WishlistItem{}).Where("user_id = ?", fx.user.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestAddUnknownBook(t *testing.T) {
	fx := newWishlistFixture(t)

	_, err := fx.svc.Add(context.Background(), fx.user.ID, 99999)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRemove(t *testing.T) {
	fx := newWishlistFixture(t)
	ctx := context.Background()

	item, err := fx.svc.Add(ctx, fx.user.ID, fx.book.ID)
	require.NoError(t, err)

	require.NoError(t, fx.svc.Remove(ctx, fx.user.ID, item.ID))
	err = fx.svc.Remove(ctx, fx.user.ID, item.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestMoveToCart(t *testing.T) {
	fx := newWishlistFixture(t)
	ctx := context.Background()

	item, err := fx.svc.Add(ctx, fx.user.ID, fx.book.ID)
	require.NoError(t, err)

	line, err := fx.svc.MoveToCart(ctx, fx.user.ID, item.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, fx.book.ID, line.Book.ID)

	items, err := fx.svc.Get(ctx, fx.user.ID)
	require.NoError(t, err)
	assert.Empty(t, items, "the moved item leaves the wishlist")

	_, err = fx.svc.MoveToCart(ctx, fx.user.ID, item.ID, 1)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestMoveToCartMergesExistingLine(t *testing.T) {
	fx := newWishlistFixture(t)
	ctx := context.Background()

	_, err := fx.cartSvc.Add(ctx, fx.user.ID, fx.book.ID, 1)
	require.NoError(t, err)
	item, err := fx.svc.Add(ctx, fx.user.ID, fx.book.ID)
	require.NoError(t, err)

	line, err := fx.svc.MoveToCart(ctx, fx.user.ID, item.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, line.Quantity, "quantities merge through the cart upsert")
}

func TestMoveToCartSoldOutBookStays(t *testing.T) {
	fx := newWishlistFixture(t)
	ctx := context.Background()

	item, err := fx.svc.Add(ctx, fx.user.ID, fx.soldOut.ID)
	require.NoError(t, err)

	_, err = fx.svc.MoveToCart(ctx, fx.user.ID, item.ID, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, cart.ErrInsufficientStock)

	items, err := fx.svc.Get(ctx, fx.user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1, "a failed move keeps the wishlist item")
}

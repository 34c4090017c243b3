package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookstore/internal/cart"
	"github.com/Skotchmaster/bookstore/internal/handlers"
	"github.com/Skotchmaster/bookstore/internal/wishlist"
)

type Deps struct {
	BookHandler      *handlers.BookHandler
	CategoryHandler  *handlers.CategoryHandler
	PublisherHandler *handlers.PublisherHandler
	AuthorHandler    *handlers.AuthorHandler
	SearchHandler    *handlers.SearchHandler
	CartHandler      *cart.CartHandler
	WishlistHandler  *wishlist.WishlistHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	books := v1.Group("/books")
	books.GET("", d.BookHandler.GetBooks)
	books.GET("/popular", d.BookHandler.GetPopularBooks)
	books.GET("/stats", d.BookHandler.GetBooksStats)
	books.GET("/:id", d.BookHandler.GetBook)

	categories := v1.Group("/categories")
	categories.GET("", d.CategoryHandler.GetCategories)
	categories.GET("/:id", d.CategoryHandler.GetCategory)
	categories.GET("/:id/books", d.CategoryHandler.GetCategoryBooks)

	publishers := v1.Group("/publishers")
	publishers.GET("", d.PublisherHandler.GetPublishers)
	publishers.GET("/:id", d.PublisherHandler.GetPublisher)

	authors := v1.Group("/authors")
	authors.GET("", d.AuthorHandler.GetAuthors)
	authors.GET("/:id", d.AuthorHandler.GetAuthor)

	if d.SearchHandler != nil {
		v1.GET("/search", d.SearchHandler.Search)
	}

	admin := v1.Group("/admin")
	admin.POST("/categories", d.CategoryHandler.CreateCategory)
	admin.PATCH("/categories/:id", d.CategoryHandler.UpdateCategory)
	admin.DELETE("/categories/:id", d.CategoryHandler.DeleteCategory)
	admin.POST("/publishers", d.PublisherHandler.CreatePublisher)
	admin.PATCH("/publishers/:id", d.PublisherHandler.UpdatePublisher)
	admin.DELETE("/publishers/:id", d.PublisherHandler.DeletePublisher)
	admin.POST("/authors", d.AuthorHandler.CreateAuthor)
	admin.PATCH("/authors/:id", d.AuthorHandler.UpdateAuthor)
	if d.SearchHandler != nil {
		admin.POST("/search/reindex", d.SearchHandler.Reindex)
	}

	cartGroup := v1.Group("/cart")
	cartGroup.GET("", d.CartHandler.GetCart)
	cartGroup.POST("", d.CartHandler.AddToCart)
	cartGroup.PATCH("/:id", d.CartHandler.UpdateCartItem)
	cartGroup.DELETE("", d.CartHandler.ClearCart)
	cartGroup.DELETE("/:id", d.CartHandler.RemoveFromCart)

	wl := v1.Group("/wishlist")
	wl.GET("", d.WishlistHandler.GetWishlist)
	wl.POST("", d.WishlistHandler.AddToWishlist)
	wl.DELETE("/:id", d.WishlistHandler.RemoveFromWishlist)
	wl.POST("/:id/move-to-cart", d.WishlistHandler.MoveToCart)
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"api_pos/internal/catalog"
	"api_pos/internal/checkout"
	"api_pos/internal/operator"
	"api_pos/internal/storesession"
)

// Backends bundles the storage implementations behind the core services.
// Local and Mongo backends are interchangeable here.
type Backends struct {
	Items        catalog.Storage
	Transactions checkout.Storage
	Sessions     storesession.Storage
	Operators    operator.Storage
}

// LocalBackends returns fully in-memory backends, used for local development
// and tests.
func LocalBackends() Backends {
	return Backends{
		Items:        catalog.NewLocalStorage(),
		Transactions: checkout.NewLocalStorage(),
		Sessions:     storesession.NewLocalStorage(),
		Operators:    operator.NewLocalStorage(),
	}
}

// MongoBackends returns backends over the given database and creates the
// indexes the core relies on (unique barcode, unique username).
func MongoBackends(db *mongo.Database) (Backends, error) {
	items := catalog.NewMongoStorage(db)
	if err := items.EnsureIndexes(); err != nil {
		return Backends{}, err
	}
	operators := operator.NewMongoStorage(db)
	if err := operators.EnsureIndexes(); err != nil {
		return Backends{}, err
	}
	transactions := checkout.NewMongoStorage(db)
	if err := transactions.EnsureIndexes(); err != nil {
		return Backends{}, err
	}
	return Backends{
		Items:        items,
		Transactions: transactions,
		Sessions:     storesession.NewMongoStorage(db),
		Operators:    operators,
	}, nil
}

// InitRoutes registers the POS endpoints on the given Gin engine over
// in-memory backends.
func InitRoutes(e *gin.Engine) {
	InitRoutesWith(e, LocalBackends())
}

// InitRoutesWith registers the POS endpoints over the given backends. It
// initializes the services and handler, then binds each HTTP method and path
// to the appropriate handler function.
func InitRoutesWith(e *gin.Engine, b Backends) {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	catalogService := catalog.NewService(b.Items, logger)
	operatorDirectory := operator.NewDirectory(b.Operators, logger)
	sessionManager := storesession.NewManager(b.Sessions, operatorDirectory, logger)
	checkoutService := checkout.NewService(b.Transactions, catalogService, sessionManager, logger)
	h := NewPOSHandler(catalogService, checkoutService, sessionManager, operatorDirectory, logger)

	e.POST("/items", h.handleSaveItem)
	e.GET("/items", h.handleListItems)
	e.GET("/items/:id", h.handleGetItem)
	e.POST("/items/:id/restock", h.handleRestock)
	e.GET("/scan", h.handleResolveScan)

	e.POST("/checkout", h.handleCheckout)
	e.GET("/transactions", h.handleListTransactions)

	e.POST("/sessions/open", h.handleOpenSession)
	e.POST("/sessions/close", h.handleCloseSession)
	e.GET("/sessions/active", h.handleActiveSession)
	e.GET("/sessions", h.handleListSessions)

	e.POST("/operators", h.handleAddOperator)
	e.PATCH("/operators/password", h.handleChangePassword)

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}

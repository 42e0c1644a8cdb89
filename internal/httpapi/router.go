package httpapi

import (
	"net/http"

	"takeaway-be/internal/menu"
	"takeaway-be/internal/metrics"
	"takeaway-be/internal/middleware"
	"takeaway-be/internal/notify"
	"takeaway-be/internal/order"
	"takeaway-be/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Services bundles the domain services the router dispatches to.
type Services struct {
	Users  user.Service
	Menu   menu.Service
	Orders order.Service
}

func NewRouter(jwtSecret string, svcs Services, hub *notify.Hub, reg *metrics.Registry, limiter *middleware.Limiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(cors.Default())

	authn := middleware.Auth(jwtSecret)
	staff := middleware.RequireManager()
	limited := limiter.Middleware()

	authH := NewAuthHandler(svcs.Users)
	menuH := NewMenuHandler(svcs.Menu)
	orderH := NewOrderHandler(svcs.Orders)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"metrics": reg.Snapshot(),
		})
	})

	r.GET("/ws", hub.HandleWS)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", limited, authH.Register)
			auth.POST("/login", limited, authH.Login)
			auth.GET("/me", authn, authH.Me)
		}

		m := api.Group("/menu")
		{
			m.GET("", limited, menuH.List)
			m.GET("/all", authn, limited, staff, menuH.ListAll)
			m.POST("", authn, limited, staff, menuH.Create)
			m.PUT("/:id", authn, limited, staff, menuH.Update)
			m.DELETE("/:id", authn, limited, staff, menuH.Delete)
		}

		o := api.Group("/orders", authn, limited)
		{
			o.POST("", orderH.Create)
			o.GET("/my", orderH.ListMine)
			o.PUT("/:id/cancel", orderH.Cancel)
			o.PUT("/:id", orderH.Update)
			o.GET("", staff, orderH.ListAll)
			o.PUT("/:id/status", staff, orderH.SetStatus)
		}
	}

	return r
}

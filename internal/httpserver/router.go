package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ekaraca/campuslink/internal/handlers"
	"github.com/ekaraca/campuslink/internal/middleware/adminauth"
	"github.com/ekaraca/campuslink/internal/middleware/session"
)

type Deps struct {
	DB             *gorm.DB
	Session        *session.Middleware
	AdminGate      *adminauth.Gate
	AuthHandler    *handlers.AuthHandler
	AdminHandler   *handlers.AdminHandler
	ProfileHandler *handlers.ProfileHandler
	PostHandler    *handlers.PostHandler
	EventHandler   *handlers.EventHandler
	TicketHandler  *handlers.TicketHandler
	ReportHandler  *handlers.ReportHandler
	SearchHandler  *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.POST("/auth/signin", d.AuthHandler.SignIn)
	e.POST("/auth/signout", d.AuthHandler.SignOut)

	// viewable anonymously, but visibility narrows what comes back
	public := e.Group("", d.Session.Optional)
	public.GET("/profile/:id", d.ProfileHandler.GetProfile)
	public.GET("/profile/:id/followers", d.ProfileHandler.Followers)
	public.GET("/profile/:id/following", d.ProfileHandler.Following)
	public.GET("/events", d.EventHandler.ListEvents)
	public.GET("/users/search", d.SearchHandler.SearchUsers)

	private := e.Group("", d.Session.Require)
	private.GET("/feed", d.PostHandler.GetFeed)
	private.POST("/posts", d.PostHandler.CreatePost)
	private.PATCH("/posts/:id", d.PostHandler.UpdatePost)
	private.DELETE("/posts/:id", d.PostHandler.DeletePost)
	private.POST("/follow/:id/toggle", d.ProfileHandler.ToggleFollow)
	private.POST("/follow/requests/:id/accept", d.ProfileHandler.AcceptFollowRequest)
	private.POST("/follow/requests/:id/reject", d.ProfileHandler.RejectFollowRequest)
	private.POST("/events", d.EventHandler.CreateEvent)
	private.PATCH("/events/:id", d.EventHandler.UpdateEvent)
	private.DELETE("/events/:id", d.EventHandler.DeleteEvent)
	private.POST("/tickets", d.TicketHandler.CreateTicket)
	private.GET("/tickets/my", d.TicketHandler.MyTickets)
	private.POST("/reports", d.ReportHandler.CreateReport)
	private.POST("/role-requests", d.ReportHandler.CreateRoleRequest)
	private.GET("/role-requests/my", d.ReportHandler.MyRoleRequests)

	admin := e.Group("/admin", d.AdminGate.Middleware)
	admin.POST("/login", d.AdminHandler.Login)
	admin.GET("/dashboard", d.AdminHandler.Dashboard)
	admin.POST("/users/:id/ban", d.AdminHandler.BanUser)
	admin.POST("/users/:id/unban", d.AdminHandler.UnbanUser)
	admin.PATCH("/users/:id/role", d.AdminHandler.SetRole)
	admin.POST("/reports/:id/resolve", d.AdminHandler.ResolveReport)
	admin.POST("/role-requests/:id/approve", d.AdminHandler.ApproveRoleRequest)
	admin.POST("/role-requests/:id/reject", d.AdminHandler.RejectRoleRequest)
	admin.POST("/tickets/:id/resolve", d.AdminHandler.ResolveTicket)
}

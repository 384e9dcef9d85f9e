package routes

import (
	"net/http"

	"bena/auth"
	"bena/bookmarks"
	"bena/interactions"
	"bena/middleware"
	"bena/places"
	"bena/profile"
	"bena/ratelim"
	"bena/search"
	"bena/share"
	"bena/trips"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/userpic/*filepath", http.Dir("static/userpic"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))
	router.POST("/api/auth/token/refresh", rl.Limit(auth.RefreshToken))
	router.GET("/api/auth/session", middleware.Authenticate(auth.Session))
	router.POST("/api/auth/password/reset", rl.Limit(auth.RequestPasswordReset))
	router.POST("/api/auth/password/confirm", rl.Limit(auth.ConfirmPasswordReset))
}

func AddProfileRoutes(router *httprouter.Router) {
	router.GET("/api/profile/:username", middleware.OptionalAuth(profile.GetProfile))
	router.PUT("/api/profile", middleware.Authenticate(profile.UpdateProfile))
	router.POST("/api/profile/avatar", middleware.Authenticate(profile.UploadAvatar))
}

func AddPlaceRoutes(router *httprouter.Router) {
	router.GET("/api/places", places.GetPlaces)
	router.GET("/api/categories", places.GetCategorizedPlaces)
	router.GET("/api/places/:placeid", places.GetPlace)
	router.GET("/api/places/:placeid/nearby", search.NearbyPlaces)
}

func AddTripRoutes(router *httprouter.Router) {
	router.GET("/api/trips", middleware.Authenticate(trips.GetTrips))
	router.POST("/api/trips", middleware.Authenticate(trips.CreateTrip))
	router.POST("/api/aitrips", middleware.Authenticate(trips.CreateAITrip))
	router.PUT("/api/trips/:tripid/inprogress", middleware.Authenticate(trips.MarkTripInProgress))
	router.PUT("/api/trips/:tripid/planned", middleware.Authenticate(trips.MarkTripPlanned))
	router.PUT("/api/trips/:tripid/completed", middleware.Authenticate(trips.MarkTripCompleted))
	router.DELETE("/api/trips/:tripid", middleware.Authenticate(trips.DeleteTrip))
	router.GET("/api/trips/:tripid/export", middleware.Authenticate(trips.ExportTripPDF))

	router.PUT("/api/steps/:stepid/visited", middleware.Authenticate(trips.MarkStepVisited))
	router.PUT("/api/steps/:stepid/pending", middleware.Authenticate(trips.MarkStepPending))
	router.DELETE("/api/steps/:stepid", middleware.Authenticate(trips.DeleteStep))
	router.POST("/api/steps/swap", middleware.Authenticate(trips.SwapSteps))

	router.POST("/api/trips/:tripid/guests", middleware.Authenticate(trips.AddGuest))
	router.GET("/api/trips/:tripid/guests", middleware.Authenticate(trips.GetGuests))
}

func AddBookmarkRoutes(router *httprouter.Router) {
	router.GET("/api/bookmarks", middleware.Authenticate(bookmarks.GetBookmarks))
	router.POST("/api/bookmarks", middleware.Authenticate(bookmarks.AddBookmark))
	router.DELETE("/api/bookmarks/:placeid", middleware.Authenticate(bookmarks.RemoveBookmark))
}

func AddInteractionRoutes(router *httprouter.Router) {
	router.GET("/api/interactions/:placeid", middleware.Authenticate(interactions.GetInteraction))
	router.PUT("/api/interactions/:placeid", middleware.Authenticate(interactions.UpdateInteraction))
	router.GET("/api/interactions/:placeid/counts", interactions.GetInteractionCounts)
}

func AddSearchRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/search", rl.Limit(search.SearchPlaces))
	router.GET("/api/search/live", search.LiveSearch)
	router.GET("/api/recommendations", middleware.Authenticate(search.Recommendations))
	router.POST("/api/translate", rl.Limit(middleware.Authenticate(search.Translate)))
}

func AddShareRoutes(router *httprouter.Router) {
	router.GET("/share/trip/:tripid", share.ShareTrip)
	router.GET("/share/trip/:tripid/qr", share.ShareTripQR)
}

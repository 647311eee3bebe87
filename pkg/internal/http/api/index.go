package api

import (
	"github.com/gofiber/fiber/v2"
)

func MapAPIs(app *fiber.App, baseURL string) {
	api := app.Group(baseURL).Name("API")
	{
		auth := api.Group("/auth").Name("Auth API")
		{
			auth.Post("/signup", signup)
			auth.Post("/login", login)
			auth.Post("/logout", logout)
			auth.Get("/user", getCurrentUser)
		}

		profiles := api.Group("/profiles").Name("Profiles API")
		{
			profiles.Get("/", listProfiles)
			profiles.Get("/me", getMyProfile)
			profiles.Put("/me", updateMyProfile)
			profiles.Get("/:name", getProfile)
		}

		posts := api.Group("/posts").Name("Posts API")
		{
			posts.Get("/", listPost)
			posts.Post("/", createPost)
			posts.Get("/feed", getFeed)
			posts.Get("/suggestions", getSuggestions)
			posts.Get("/featured", getFeatured)
			posts.Get("/:postId", getPost)
			posts.Delete("/:postId", deletePost)
			posts.Post("/:postId/like", toggleLike)
			posts.Get("/:postId/comments", listComments)
			posts.Post("/:postId/comments", createComment)
		}

		api.Delete("/comments/:commentId", deleteComment)

		relations := api.Group("/relations").Name("Relations API")
		{
			relations.Post("/follow", toggleFollow)
			relations.Get("/followers", listFollowers)
			relations.Get("/following", listFollowing)
			relations.Post("/block", blockUser)
			relations.Post("/unblock", unblockUser)
			relations.Post("/block/toggle", toggleBlock)
			relations.Get("/blocks", listBlocks)
		}

		notifications := api.Group("/notifications").Name("Notifications API")
		{
			notifications.Get("/", listNotifications)
			notifications.Post("/read-all", markAllNotificationsRead)
			notifications.Post("/:notificationId/read", markNotificationRead)
		}
	}
}

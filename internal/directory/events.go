package directory

// Event topics published by the Directory module.
const (
	TopicRouterCreated = "directory.router.created"
	TopicRouterUpdated = "directory.router.updated"
	TopicRouterDeleted = "directory.router.deleted"
)

package consts

const (
	MovieViewDedupKey = "movie:view:dedup:"
	CategoryListKey   = "category:list"
)

const (
	PosterImportLock = "lock:poster:import:"
)

package consts

const (
	MovieStatusNormal  = 1
	MovieStatusOffline = 2
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

const (
	DefaultPosterURL = "default_poster.png"
)

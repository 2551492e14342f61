package params

import "time"

const (
	ServerBodyLimit    = 16 * 1024 * 1024 // 16 MiB, bounded by the upload size cap
	ServerIdleTimeout  = 30 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 30 * time.Second

	DatabaseBusyTimeout = 5 * time.Second // SQLITE_BUSY wait budget per statement

	SessionCookieName    = "session_id"
	DefaultSessionMaxAge = 24 * time.Hour

	PasswordMinLength = 6

	UploadMaxSize   = 16 * 1024 * 1024 // maximum attachment size in bytes
	UploadExtension = ".pdf"

	CSRFTokenExpiration = 1 * time.Hour

	HealthCheckServerAddr = ":3001" // health check server address
)

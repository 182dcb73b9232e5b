// cmd/container.go
//
// Root composition root. Owns infrastructure (DB, Redis, FS, mail) and wires
// the auth and user modules. This is the only place that knows about ALL modules.
package main

import (
	"context"
	"fmt"
	"time"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/tambo-labs/tambo/pkg/config"
	"github.com/tambo-labs/tambo/pkg/fsx"
	"github.com/tambo-labs/tambo/pkg/fsx/fsxlocal"
	"github.com/tambo-labs/tambo/pkg/fsx/fsxs3"
	"github.com/tambo-labs/tambo/pkg/iam/auth"
	"github.com/tambo-labs/tambo/pkg/iam/auth/authapi"
	"github.com/tambo-labs/tambo/pkg/iam/otp"
	"github.com/tambo-labs/tambo/pkg/iam/otp/otpmail"
	"github.com/tambo-labs/tambo/pkg/iam/otp/otpmem"
	"github.com/tambo-labs/tambo/pkg/iam/otp/otpredis"
	"github.com/tambo-labs/tambo/pkg/iam/otp/otpsrv"
	"github.com/tambo-labs/tambo/pkg/iam/token"
	"github.com/tambo-labs/tambo/pkg/kernel"
	"github.com/tambo-labs/tambo/pkg/logx"
	"github.com/tambo-labs/tambo/pkg/notifx"
	"github.com/tambo-labs/tambo/pkg/notifx/notifxconsole"
	"github.com/tambo-labs/tambo/pkg/notifx/notifxses"
	"github.com/tambo-labs/tambo/pkg/user/userapi"
	"github.com/tambo-labs/tambo/pkg/user/userinfra"
	"github.com/tambo-labs/tambo/pkg/user/usersrv"
)

// Container holds shared infrastructure and the composed module services.
type Container struct {
	Config *config.Config

	// Infrastructure (shared across all modules)
	DB         *sqlx.DB
	Redis      *redis.Client
	FileSystem fsx.FileSystem
	Mailer     *notifx.Client

	// Services
	OTPService   *otpsrv.Service
	TokenService *token.Service
	AuthService  *auth.Service
	UserService  *usersrv.UserService

	// HTTP surface
	AuthHandlers *authapi.AuthHandlers
	UserHandlers *userapi.UserHandlers
	Middleware   *auth.TokenMiddleware
}

func NewContainer(cfg *config.Config) *Container {
	logx.Info("🔧 Initializing application container...")

	c := &Container{Config: cfg}

	c.initInfrastructure()
	c.initModules()

	logx.Info("✅ Application container initialized")
	return c
}

// ---------------------------------------------------------------------------
// Infrastructure: DB, Redis, file storage, mail
// ---------------------------------------------------------------------------

func (c *Container) initInfrastructure() {
	logx.Info("🏗️ Initializing infrastructure...")

	// 1. Database
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Config.Database.Host,
		c.Config.Database.Port,
		c.Config.Database.User,
		c.Config.Database.Password,
		c.Config.Database.Name,
		c.Config.Database.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
	db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
	c.DB = db
	logx.Info("  ✅ Database connected")

	// 2. Redis (optional; OTP state falls back to the in-process store)
	if c.Config.Redis.Enabled {
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     c.Config.Redis.Address(),
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		})
		if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
			logx.Fatalf("Failed to connect to Redis: %v (disable with REDIS_ENABLED=false)", err)
		}
		logx.Info("  ✅ Redis connected")
	} else {
		logx.Info("  ⚪ Redis disabled, using in-memory OTP store")
	}

	// 3. File storage
	c.initFileStorage()

	// 4. Mail
	c.initMail()

	logx.Info("✅ Infrastructure initialized")
}

func (c *Container) initFileStorage() {
	switch c.Config.Storage.Mode {
	case "s3":
		awsCfg, err := awsConfig.LoadDefaultConfig(context.TODO(),
			awsConfig.WithRegion(c.Config.Storage.AWSRegion))
		if err != nil {
			logx.Fatalf("Unable to load AWS SDK config: %v", err)
		}
		c.FileSystem = fsxs3.NewS3FileSystem(s3.NewFromConfig(awsCfg), c.Config.Storage.AWSBucket, "")
		logx.Infof("  ✅ S3 file system configured (bucket: %s, region: %s)",
			c.Config.Storage.AWSBucket, c.Config.Storage.AWSRegion)

	case "local":
		localFS, err := fsxlocal.NewLocalFileSystem(c.Config.Storage.LocalDir)
		if err != nil {
			logx.Fatalf("Failed to initialize local file system: %v", err)
		}
		c.FileSystem = localFS
		logx.Infof("  ✅ Local file system configured (path: %s)", localFS.GetBasePath())

	default:
		logx.Fatalf("Unknown STORAGE_MODE: %s (use 'local' or 's3')", c.Config.Storage.Mode)
	}
}

func (c *Container) initMail() {
	switch c.Config.Mail.Provider {
	case "ses":
		awsCfg, err := awsConfig.LoadDefaultConfig(context.TODO(),
			awsConfig.WithRegion(c.Config.Mail.AWSRegion))
		if err != nil {
			logx.Fatalf("Unable to load AWS SDK config: %v", err)
		}
		provider := notifxses.NewSESProvider(ses.NewFromConfig(awsCfg), c.Config.Mail.FromAddress)
		c.Mailer = notifx.NewClient(provider)
		logx.Infof("  ✅ SES mail provider configured (region: %s)", c.Config.Mail.AWSRegion)

	case "console":
		c.Mailer = notifx.NewClient(notifxconsole.NewConsoleProvider())
		logx.Info("  ⚪ Console mail provider configured (dev mode)")

	default:
		logx.Fatalf("Unknown MAIL_PROVIDER: %s (use 'ses' or 'console')", c.Config.Mail.Provider)
	}
}

// ---------------------------------------------------------------------------
// Module composition
// ---------------------------------------------------------------------------

func (c *Container) initModules() {
	logx.Info("📦 Initializing modules...")

	var otpStore otp.Store
	if c.Redis != nil {
		otpStore = otpredis.NewRedisStore(c.Redis)
	} else {
		otpStore = otpmem.NewMemoryStore()
	}

	mailer, err := otpmail.NewMailer(c.Mailer, c.Config.Mail.FromAddress,
		int(c.Config.OTP.TTL/time.Minute))
	if err != nil {
		logx.Fatalf("Failed to initialize OTP mailer: %v", err)
	}

	c.OTPService = otpsrv.NewService(otpStore, mailer, c.Config.OTP)
	c.TokenService = token.NewService(c.Config.JWT)

	hasher := auth.NewBcryptHasher(0)
	users := userinfra.NewPostgresUserRepository(c.DB)

	c.AuthService = auth.NewService(users, c.TokenService, hasher)
	c.UserService = usersrv.NewUserService(users, c.FileSystem, c.OTPService, hasher)

	c.AuthHandlers = authapi.NewAuthHandlers(c.OTPService, c.AuthService, c.UserService)
	c.UserHandlers = userapi.NewUserHandlers(c.UserService)
	c.Middleware = auth.NewTokenMiddleware(c.TokenService, routePolicy())

	logx.Info("✅ Modules initialized")
}

// routePolicy is the static access table for the whole API. Anything not
// listed requires a valid token.
func routePolicy() *auth.Policy {
	adminOnly := kernel.RoleAdmin.String()

	return auth.NewPolicy(
		auth.Public("GET", "/health"),
		auth.Public("GET", "/"),
		auth.Public("POST", "/auth/otp/request"),
		auth.Public("POST", "/auth/otp/verify"),
		auth.Public("POST", "/auth/register"),
		auth.Public("POST", "/auth/login"),
		auth.Authenticated("GET", "/auth/me"),
		auth.Restricted("", "/api/v1/users/*", adminOnly),
	)
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

func (c *Container) Cleanup() {
	logx.Info("🧹 Cleaning up resources...")

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("Error closing database: %v", err)
		} else {
			logx.Info("  ✅ Database connection closed")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		} else {
			logx.Info("  ✅ Redis connection closed")
		}
	}

	logx.Info("✅ Cleanup complete")
}

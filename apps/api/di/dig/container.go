package dig_container

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/lumen-youth/lumen/apps/api/echo"
	"github.com/lumen-youth/lumen/core"
	"github.com/lumen-youth/lumen/core/content"
	"github.com/lumen-youth/lumen/core/newsletter"
	"github.com/lumen-youth/lumen/core/program"
	"github.com/lumen-youth/lumen/core/user"
	"github.com/lumen-youth/lumen/core/volunteer"
	emailsvc "github.com/lumen-youth/lumen/services/email"
	logsvc "github.com/lumen-youth/lumen/services/logger"
	mediasvc "github.com/lumen-youth/lumen/services/media"
	"github.com/lumen-youth/lumen/storage/database"
	sqlxrepos "github.com/lumen-youth/lumen/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

type serverParams struct {
	dig.In
	Conf          *core.Config
	Logger        core.Logger
	Validate      *validator.Validate
	Translator    ut.Translator
	UserSvc       *user.Service
	ProgramSvc    *program.Service
	ContentSvc    *content.Service
	VolunteerSvc  *volunteer.Service
	NewsletterSvc *newsletter.Service
	ImageStore    core.ImageStore
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) (*sql.DB, *sqlx.DB) {
	setUp := func() (*sql.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db, "up"); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db, sqlxrepos.Open(db, conf.Database.Engine)
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

// newImageStore uploads to S3 (or any S3 compatible storage) once a bucket is configured.
func newImageStore(conf *core.Config, logger core.Logger) core.ImageStore {
	if conf.Media.Bucket == "" {
		logger.Warn("no media bucket configured: uploaded images are kept in memory")
		return mediasvc.NewMemoryStore(conf)
	}
	store, err := mediasvc.NewS3Store(context.Background(), conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up media storage: %v", err), err)
	}
	return store
}

func newProgramFinder(repo program.Repository) volunteer.ProgramFinder {
	return repo
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.Deps{
		Conf:          p.Conf,
		Logger:        p.Logger,
		Validate:      p.Validate,
		Translator:    p.Translator,
		UserSvc:       p.UserSvc,
		ProgramSvc:    p.ProgramSvc,
		ContentSvc:    p.ContentSvc,
		VolunteerSvc:  p.VolunteerSvc,
		NewsletterSvc: p.NewsletterSvc,
		ImageStore:    p.ImageStore,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newEmailService))
	must(c.Provide(newImageStore))
	must(c.Provide(validator.New))
	must(c.Provide(core.NewTranslator))

	// repositories
	must(c.Provide(sqlxrepos.NewUserRepository))
	must(c.Provide(sqlxrepos.NewProgramRepository))
	must(c.Provide(sqlxrepos.NewContentRepository))
	must(c.Provide(sqlxrepos.NewVolunteerRepository))
	must(c.Provide(sqlxrepos.NewNewsletterRepository))
	must(c.Provide(newProgramFinder))

	// services
	must(c.Provide(user.NewService))
	must(c.Provide(program.NewService))
	must(c.Provide(content.NewService))
	must(c.Provide(volunteer.NewService))
	must(c.Provide(newsletter.NewService))

	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}

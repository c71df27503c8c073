package main

import (
	"log"
	"os"

	"github.com/lumen-youth/lumen/core"
	"github.com/lumen-youth/lumen/core/program"
	"github.com/lumen-youth/lumen/storage/database"
	sqlxrepos "github.com/lumen-youth/lumen/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	xdb := sqlxrepos.Open(db, conf.Database.Engine)

	// start CLI
	cli := commandLine{
		db:         db,
		usrRepo:    sqlxrepos.NewUserRepository(xdb),
		programSvc: program.NewService(sqlxrepos.NewProgramRepository(xdb), conf),
		out:        os.Stdout,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}

package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "collateral-loan-ledger/internal/adapter/http"
	mw "collateral-loan-ledger/internal/adapter/middleware"
	"collateral-loan-ledger/internal/adapter/repository/mysql"
	"collateral-loan-ledger/internal/config"
	"collateral-loan-ledger/internal/domain/event"
	"collateral-loan-ledger/internal/domain/loan"
	"collateral-loan-ledger/internal/domain/vault"
	"collateral-loan-ledger/internal/infrastructure/cache"
	"collateral-loan-ledger/internal/infrastructure/db"
	"collateral-loan-ledger/internal/notify"
	"collateral-loan-ledger/internal/usecase/ledger"
	"collateral-loan-ledger/pkg/clock"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	if err := gdb.AutoMigrate(&loan.Loan{}, &event.Event{}, &vault.Account{}); err != nil {
		log.Fatal(err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	loans := mysql.NewLoanRepository(gdb)
	events := mysql.NewEventRepository(gdb)
	uow := mysql.NewGormUoW(gdb)
	pub := notify.NewRedisPublisher(rdb, cfg.EventChannel)

	uc := ledger.NewUsecase(loans, events, uow, clock.System(), pub)

	h := httpadp.NewHandler()
	lh := httpadp.NewLedgerHandler(uc)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())
	e.Use(mw.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))

	e.GET("/health", h.Health)
	e.POST("/loans", lh.RequestLoan)
	e.POST("/loans/:id/fund", lh.FundLoan)
	e.POST("/loans/:id/repay", lh.RepayLoan)
	e.POST("/loans/:id/claim", lh.ClaimCollateral)
	e.GET("/loans/:id", lh.GetLoan)
	e.GET("/loans/:id/events", lh.ListEvents)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

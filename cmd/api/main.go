package main

import (
	"errors"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/event"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/infra/logger"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func main() {
	//.envはあれば読む（本番は環境変数のみ）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.GoEnv)

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}

	if err := gormDB.AutoMigrate(
		&model.Product{},
		&model.Customer{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.AuditLog{},
	); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	//devはカタログが空なら動作確認用の商品を入れる
	if cfg.GoEnv == "dev" {
		if err := seedCatalog(gormDB); err != nil {
			log.Fatal().Err(err).Msg("seed failed")
		}
	}

	//Repository（GORM実装）生成
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	customerRepo := infraRepo.NewCustomerGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//注文イベントの発行先。ブローカー未設定ならログに流すだけ。
	var publisher event.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kp := event.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kp.Close()
		publisher = kp
	} else {
		publisher = event.NewLogPublisher(log)
	}

	//Usecase生成
	cartUC := usecase.NewCartUsecase(cartRepo, cartRepo, productRepo)
	orderUC := usecase.NewOrderUsecase(txManager, customerRepo, publisher, log)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager)

	//Handler生成
	cartH := handler.NewCartHandler(cartUC)
	orderH := handler.NewOrderHandler(orderUC, adminOrderUC)

	//Server起動
	e := server.New(cfg, log, cartH, orderH)

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	log.Info().Str("addr", addr).Msg("server start")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// カタログが空のときだけ入れる
func seedCatalog(gormDB *gorm.DB) error {
	var count int64
	if err := gormDB.Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	products := []model.Product{
		{Title: "Coffee Beans 500g", UnitPrice: decimal.NewFromFloat(10.00), Inventory: 120, CreatedAt: now, UpdatedAt: now},
		{Title: "Paper Filter x100", UnitPrice: decimal.NewFromFloat(5.00), Inventory: 300, CreatedAt: now, UpdatedAt: now},
		{Title: "Ceramic Dripper", UnitPrice: decimal.NewFromFloat(24.50), Inventory: 40, CreatedAt: now, UpdatedAt: now},
	}

	if err := gormDB.Create(&products).Error; err != nil {
		return errors.New("seed products: " + err.Error())
	}
	return nil
}

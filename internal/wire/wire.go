package wire

import (
	"Cinebase/internal/api"
	"Cinebase/internal/api/config"
	"Cinebase/internal/api/handler"
	"Cinebase/internal/job"
	"Cinebase/internal/pkg/cron"
	"Cinebase/internal/pkg/es"
	"Cinebase/internal/pkg/kafka"
	"Cinebase/internal/repository"
	"Cinebase/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	interestRepo := repository.NewInterestRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	movieRepo := repository.NewMovieRepository(db)
	movieActionRepo := repository.NewMovieActionRepo(db)

	movieESRepo := es.NewMovieRepo(es.Client)

	recommenderCfg := &cfg.Recommender

	userService := service.NewUserService(userRepo, interestRepo, categoryRepo, movieRepo, movieActionRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	movieService := service.NewMovieService(movieRepo, categoryRepo, movieESRepo)
	signalService := service.NewSignalService(interestRepo, categoryRepo, movieRepo, movieActionRepo, userRepo, recommenderCfg)
	similarityService := service.NewSimilarityService(movieRepo, categoryRepo)
	recommendService := service.NewRecommendService(interestRepo, movieRepo, categoryRepo, movieActionRepo, recommenderCfg)
	maintenanceService := service.NewMaintenanceService(interestRepo, userRepo, recommenderCfg)

	handlers := &api.HandlersGroup{
		UserHandler:        handler.NewUserHandler(userService),
		MovieHandler:       handler.NewMovieHandler(movieService),
		MediaHandler:       handler.NewMediaHandler(movieService),
		CategoryHandler:    handler.NewCategoryHandler(categoryService),
		SignalHandler:      handler.NewSignalHandler(signalService),
		RecommendHandler:   handler.NewRecommendHandler(recommendService, similarityService),
		MaintenanceHandler: handler.NewMaintenanceHandler(maintenanceService),
	}

	router := api.SetupRouter(handlers)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, signalService)
	if err != nil {
		return nil, err
	}

	sweepJob := job.NewInterestSweepJob(maintenanceService)
	cronMgr := cron.NewCronManager(sweepJob)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}

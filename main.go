package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crowdfund-service/domain/repository"
	"crowdfund-service/infrastructure/cache"
	"crowdfund-service/infrastructure/clients/contentgen"
	"crowdfund-service/infrastructure/clients/imagestore"
	"crowdfund-service/infrastructure/configuration"
	"crowdfund-service/infrastructure/logger"
	"crowdfund-service/infrastructure/persistence"
	"crowdfund-service/infrastructure/pubsub"
	"crowdfund-service/infrastructure/realtime"
	"crowdfund-service/infrastructure/servicebus"
	httpHandler "crowdfund-service/interfaces/http"
	"crowdfund-service/server"
	"crowdfund-service/usecase"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"golang.org/x/sync/errgroup"
)

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	cfg, err := configuration.Load()
	if err != nil {
		logger.GetLogger().WithField("error", err).Fatal("Error while loading configuration")
	}
	logger.Configure(cfg.Logger.Level, cfg.Logger.Format)

	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	mongoClient, err := persistence.NewMongoDb(connectCtx, cfg.Database.Mongo.MongoURI())
	connectCancel()
	if err != nil {
		logger.GetLogger().WithField("error", err).Fatal("MongoDB connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while disconnecting MongoDB")
		}
	}()
	logger.GetLogger().WithField("database", cfg.Database.Mongo.Name).Info("MongoDB connected successfully")
	db := mongoClient.Database(cfg.Database.Mongo.Name)

	projectRepository := persistence.NewProjectRepository(db)
	if err := projectRepository.EnsureIndexes(ctx); err != nil {
		logger.GetLogger().WithField("error", err).Fatal("Error while ensuring project indexes")
	}
	postRepository := persistence.NewPostRepository(db)

	hub := realtime.NewProjectHub()
	publishers := []repository.IProjectEventPublisher{hub}
	if p := initiatePubSub(ctx, cfg); p != nil {
		defer p.Stop()
		publishers = append(publishers, p)
	}
	if s := initiateServiceBus(cfg); s != nil {
		publishers = append(publishers, s)
	}

	imageStore := initiateImageStore(cfg)
	contentGenerator := contentgen.NewClient(cfg.ContentGen.URL, time.Duration(cfg.ContentGen.TimeoutSeconds)*time.Second)

	projectUsecase := usecase.NewProjectUsecase(projectRepository, initiateSequence(ctx, cfg, db), imageStore, publishers...)
	postUsecase := usecase.NewPostUsecase(postRepository, imageStore)
	contentUsecase := usecase.NewContentUsecase(contentGenerator)

	router := server.InitiateRouter(cfg, server.Handlers{
		Project: httpHandler.NewProjectHandler(projectUsecase, cfg.App.UploadDir),
		Post:    httpHandler.NewPostHandler(postUsecase, cfg.App.UploadDir),
		Content: httpHandler.NewContentHandler(contentUsecase),
		Health: httpHandler.NewHealthHandler(httpHandler.PingerFunc(func(ctx context.Context) error {
			return mongoClient.Ping(ctx, readpref.Primary())
		})),
		Events: hub,
	})

	app := cfg.App
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	httpServer.RegisterOnShutdown(hub.Close)

	g, gctx := errgroup.WithContext(ctx)
	logger.GetLogger().WithFields(map[string]interface{}{"port": app.Port, "tls": app.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		var err error
		if app.TLSEnabled {
			logger.GetLogger().WithFields(map[string]interface{}{"cert": app.TLSCertFile, "key": app.TLSKeyFile}).Info("Serving HTTPS")
			err = httpServer.ListenAndServeTLS(app.TLSCertFile, app.TLSKeyFile)
		} else {
			err = httpServer.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-gctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while shutting down server")
	}
	cancel()

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// initiateSequence uses Redis when configured and falls back to the Mongo
// counters collection.
func initiateSequence(ctx context.Context, cfg *configuration.Config, db *mongo.Database) repository.ISequence {
	if !cfg.RedisClient.Enabled() {
		logger.GetLogger().Info("Redis not configured, allocating project ids from MongoDB")
		return persistence.NewMongoSequence(db)
	}
	redisClient, err := cache.NewCache(ctx, cfg.RedisClient.Addr(), cfg.RedisClient.Username, cfg.RedisClient.Password, cfg.RedisClient.DB)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - allocating project ids from MongoDB")
		return persistence.NewMongoSequence(db)
	}
	logger.GetLogger().WithField("addr", cfg.RedisClient.Addr()).Info("Redis client initialized successfully.")
	return cache.NewRedisSequence(redisClient)
}

func initiateImageStore(cfg *configuration.Config) repository.IImageStore {
	if !cfg.ImageStore.Enabled() {
		logger.GetLogger().Warn("Image store credentials not configured - uploads will yield no image")
		return imagestore.Disabled{}
	}
	return imagestore.NewCloudinary(imagestore.Config{
		BaseURL:   cfg.ImageStore.BaseURL,
		CloudName: cfg.ImageStore.CloudName,
		APIKey:    cfg.ImageStore.APIKey,
		APISecret: cfg.ImageStore.APISecret,
		Folder:    cfg.ImageStore.Folder,
	})
}

func initiatePubSub(ctx context.Context, cfg *configuration.Config) *pubsub.ProjectPublisher {
	if cfg.Pubsub.ProjectID == "" {
		return nil
	}
	client, err := pubsub.NewPubSub(ctx, cfg.Pubsub.ProjectID, cfg.Pubsub.CredentialsFile)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while instantiate PubSub")
		return nil
	}
	return pubsub.NewProjectPublisher(client, cfg.Pubsub.Topic)
}

func initiateServiceBus(cfg *configuration.Config) repository.IProjectEventPublisher {
	if cfg.ServiceBus.ConnectionString == "" && cfg.ServiceBus.Namespace == "" {
		return nil
	}
	client, err := servicebus.NewServiceBus(cfg.ServiceBus.ConnectionString, cfg.ServiceBus.Namespace)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Azure Service Bus not available - continuing without Service Bus features")
		return nil
	}
	return servicebus.NewProjectSender(client, cfg.ServiceBus.Queue)
}

package cmd

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spirax/interview-agent/internal/ai"
	"github.com/spirax/interview-agent/internal/ai/gemini"
	"github.com/spirax/interview-agent/internal/assessment"
	"github.com/spirax/interview-agent/internal/dispatcher"
	"github.com/spirax/interview-agent/internal/interview"
	"github.com/spirax/interview-agent/internal/logger"
	"github.com/spirax/interview-agent/internal/queue"
	"github.com/spirax/interview-agent/internal/resume"
	"github.com/spirax/interview-agent/internal/secrets"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the interview-agent assessment worker",
	Run: func(_ *cobra.Command, _ []string) {
		run()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// run wires the long-lived collaborators together and drives the consume loop
// until the process is terminated.
func run() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the interview-agent", zap.String("version", version))

	if config == nil || config.Mongo == nil || config.Mongo.URI == "" {
		logger.Fatal("document store uri is required under mongo.uri")
	}
	if config.Mongo.Database == "" {
		logger.Fatal("document store database is required under mongo.database")
	}
	if config.RabbitMQ == nil || config.RabbitMQ.URL == "" {
		logger.Fatal("message broker url is required under rabbitmq.url")
	}
	if config.AI == nil || config.AI.Gemini == nil {
		logger.Fatal("gemini configuration is required under ai.gemini")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: config.AI.Gemini.APIKey,
		File:  config.AI.Gemini.APIKeyFile,
	})
	if err != nil {
		logger.Fatal(
			"loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY_FILE environment variable or the ai.gemini.api-key-file key in the configuration file"),
		)
	}

	client, err := interview.Connect(ctx, config.Mongo.URI)
	if err != nil {
		logger.Fatal("connecting to the document store", zap.Error(err))
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Warn("disconnecting from the document store", zap.Error(err))
		}
	}()

	collection := config.Mongo.Collection
	if collection == "" {
		collection = defaultCollection
	}

	store := interview.NewRepository(client, config.Mongo.Database, collection, logger)

	generator, err := gemini.NewGenerator(
		ctx,
		apiKey,
		config.AI.Gemini.Model,
		config.AI.Gemini.EmbeddingModel,
		config.AI.Gemini.MaxRetries,
		logger,
	)
	if err != nil {
		logger.Fatal("building gemini generator", zap.Error(err))
	}

	var model ai.Generator = generator
	var embedder ai.Embedder = generator

	extractor, err := resume.NewExtractor(ctx, logger)
	if err != nil {
		logger.Fatal("building pdf extractor", zap.Error(err))
	}

	assessGen := assessment.NewGenerator(model, logger, config.AI.Gemini.MaxLogLength)
	scorer := assessment.NewScorer(embedder, logger)

	intake := assessment.NewIntake(store, extractor, assessGen, logger)
	scoring := assessment.NewFeedbackScoring(store, scorer, assessGen, logger)

	resumeQueue := config.RabbitMQ.ResumeQueue
	if resumeQueue == "" {
		resumeQueue = defaultResumeQueue
	}
	feedbackQueue := config.RabbitMQ.FeedbackQueue
	if feedbackQueue == "" {
		feedbackQueue = defaultFeedbackQueue
	}

	disp := dispatcher.New(logger)
	disp.Register(resumeQueue, intake.Handle)
	disp.Register(feedbackQueue, scoring.Handle)

	consumer, err := queue.Connect(&queue.Config{
		URL:    config.RabbitMQ.URL,
		Queues: []string{resumeQueue, feedbackQueue},
	}, logger)
	if err != nil {
		logger.Fatal("connecting to the message broker", zap.Error(err))
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			logger.Warn("closing the message broker connection", zap.Error(err))
		}
	}()

	err = consumer.Run(ctx, func(ctx context.Context, d queue.Delivery) error {
		return disp.Dispatch(ctx, d.Topic, d.Body)
	})
	if errors.Is(err, context.Canceled) {
		logger.Info("exiting", zap.String("reason", "termination requested"))
		return
	}
	if err != nil {
		logger.Fatal("consume loop stopped", zap.Error(err))
	}
}

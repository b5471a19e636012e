package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/hearthvale/companion-api/internal/events"
	"github.com/hearthvale/companion-api/internal/orchestrators/achievement"
	"github.com/hearthvale/companion-api/internal/orchestrators/bond"
	"github.com/hearthvale/companion-api/internal/orchestrators/offline"
	"github.com/hearthvale/companion-api/internal/orchestrators/quest"
	"github.com/hearthvale/companion-api/internal/orchestrators/reputation"
	"github.com/hearthvale/companion-api/internal/orchestrators/resonance"
	"github.com/hearthvale/companion-api/internal/orchestrators/seasonal"
	"github.com/hearthvale/companion-api/internal/pkg/chance"
	"github.com/hearthvale/companion-api/internal/pkg/clock"
	"github.com/hearthvale/companion-api/internal/pkg/idgen"
	redisclient "github.com/hearthvale/companion-api/internal/redis"
	"github.com/hearthvale/companion-api/internal/repositories/achievements"
	gossiprepo "github.com/hearthvale/companion-api/internal/repositories/gossip"
	"github.com/hearthvale/companion-api/internal/repositories/offlineprogress"
	"github.com/hearthvale/companion-api/internal/repositories/players"
	questrepo "github.com/hearthvale/companion-api/internal/repositories/quests"
	"github.com/hearthvale/companion-api/internal/repositories/relationships"
	reputationrepo "github.com/hearthvale/companion-api/internal/repositories/reputation"
	resonancerepo "github.com/hearthvale/companion-api/internal/repositories/resonance"
	"github.com/hearthvale/companion-api/internal/repositories/seasonalevents"
	"github.com/hearthvale/companion-api/internal/sweeper"
)

var (
	grpcPort      int
	redisAddr     string
	sweepInterval time.Duration
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the gRPC server",
	Long:  `Start the companion town server with all simulation engines and background sweeps.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().IntVar(&grpcPort, "port", 50051, "gRPC server port")
	serverCmd.Flags().StringVar(&redisAddr, "redis", "localhost:6379", "Redis address")
	serverCmd.Flags().DurationVar(&sweepInterval, "sweep-interval", sweeper.DefaultInterval, "background sweep interval")
}

// engines bundles the wired simulation services
type engines struct {
	bond        bond.Service
	resonance   resonance.Service
	reputation  reputation.Service
	quest       quest.Service
	achievement achievement.Service
	offline     offline.Service
	seasonal    seasonal.Service
	sweeper     *sweeper.Sweeper
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal, gracefully stopping...")
		cancel()
	}()

	client, err := redisclient.NewClient(redisAddr, nil)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to reach redis at %s: %w", redisAddr, err)
	}

	eng, err := wireEngines(client)
	if err != nil {
		return err
	}
	eng.achievement.RegisterSubscriptions()

	go eng.sweeper.Run(ctx)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", grpcPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.StreamServerInterceptor(),
		),
	)

	// Resolver surface is owned by the API layer; this process exposes
	// health and reflection until those handlers land.
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("gRPC server starting on port %d...", grpcPort)
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Println("Shutting down gRPC server...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()

		select {
		case <-shutdownCtx.Done():
			log.Println("Graceful shutdown timeout exceeded, forcing stop")
			srv.Stop()
		case <-stopped:
			log.Println("Server stopped gracefully")
		}

		return nil
	case err := <-errChan:
		return err
	}
}

// wireEngines builds the repository and engine graph on a shared bus
func wireEngines(client redisclient.Client) (*engines, error) {
	clk := clock.New()
	rng := chance.NewDefault()
	bus := events.NewBus()

	relationshipRepo, err := relationships.NewRedis(&relationships.RedisConfig{Client: client, Clock: clk})
	if err != nil {
		return nil, fmt.Errorf("failed to create relationship repository: %w", err)
	}
	resonanceRepo, err := resonancerepo.NewRedis(&resonancerepo.RedisConfig{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create resonance repository: %w", err)
	}
	reputationRepo, err := reputationrepo.NewRedis(&reputationrepo.RedisConfig{Client: client, Clock: clk})
	if err != nil {
		return nil, fmt.Errorf("failed to create reputation repository: %w", err)
	}
	gossipRepo, err := gossiprepo.NewRedis(&gossiprepo.RedisConfig{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create gossip repository: %w", err)
	}
	questRepo, err := questrepo.NewRedis(&questrepo.RedisConfig{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create quest repository: %w", err)
	}
	achievementRepo, err := achievements.NewRedis(&achievements.RedisConfig{Client: client, Clock: clk})
	if err != nil {
		return nil, fmt.Errorf("failed to create achievement repository: %w", err)
	}
	progressRepo, err := offlineprogress.NewRedis(&offlineprogress.RedisConfig{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create offline progress repository: %w", err)
	}
	playerRepo, err := players.NewRedis(&players.RedisConfig{Client: client, Clock: clk})
	if err != nil {
		return nil, fmt.Errorf("failed to create player repository: %w", err)
	}
	seasonalRepo, err := seasonalevents.NewRedis(&seasonalevents.RedisConfig{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create seasonal event repository: %w", err)
	}

	bondSvc, err := bond.New(&bond.Config{
		RelationshipRepo: relationshipRepo,
		EventBus:         bus,
		Clock:            clk,
		IDGenerator:      idgen.NewPrefixed("rel"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bond engine: %w", err)
	}

	resonanceSvc, err := resonance.New(&resonance.Config{
		ResonanceRepo:    resonanceRepo,
		RelationshipRepo: relationshipRepo,
		BondService:      bondSvc,
		EventBus:         bus,
		Clock:            clk,
		Chance:           rng,
		IDGenerator:      idgen.NewPrefixed("res"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resonance engine: %w", err)
	}

	reputationSvc, err := reputation.New(&reputation.Config{
		ReputationRepo: reputationRepo,
		GossipRepo:     gossipRepo,
		EventBus:       bus,
		Clock:          clk,
		Chance:         rng,
		IDGenerator:    idgen.NewPrefixed("gossip"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create reputation engine: %w", err)
	}

	questSvc, err := quest.New(&quest.Config{
		QuestRepo:         questRepo,
		RelationshipRepo:  relationshipRepo,
		BondService:       bondSvc,
		ReputationService: reputationSvc,
		EventBus:          bus,
		Clock:             clk,
		Chance:            rng,
		IDGenerator:       idgen.NewPrefixed("quest"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create quest engine: %w", err)
	}

	achievementSvc, err := achievement.New(&achievement.Config{
		AchievementRepo:   achievementRepo,
		RelationshipRepo:  relationshipRepo,
		GossipRepo:        gossipRepo,
		BondService:       bondSvc,
		ReputationService: reputationSvc,
		EventBus:          bus,
		Clock:             clk,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create achievement engine: %w", err)
	}

	offlineSvc, err := offline.New(&offline.Config{
		ProgressRepo:     progressRepo,
		RelationshipRepo: relationshipRepo,
		PlayerRepo:       playerRepo,
		BondService:      bondSvc,
		Clock:            clk,
		Chance:           rng,
		IDGenerator:      idgen.NewPrefixed("offline"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create offline progress engine: %w", err)
	}

	seasonalSvc, err := seasonal.New(&seasonal.Config{
		EventRepo:          seasonalRepo,
		RelationshipRepo:   relationshipRepo,
		BondService:        bondSvc,
		ReputationService:  reputationSvc,
		AchievementService: achievementSvc,
		EventBus:           bus,
		Clock:              clk,
		IDGenerator:        idgen.NewPrefixed("sevent"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create seasonal event engine: %w", err)
	}

	swp, err := sweeper.New(&sweeper.Config{
		ReputationService: reputationSvc,
		QuestService:      questSvc,
		SeasonalService:   seasonalSvc,
		Interval:          sweepInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sweeper: %w", err)
	}

	return &engines{
		bond:        bondSvc,
		resonance:   resonanceSvc,
		reputation:  reputationSvc,
		quest:       questSvc,
		achievement: achievementSvc,
		offline:     offlineSvc,
		seasonal:    seasonalSvc,
		sweeper:     swp,
	}, nil
}

func logFunc(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
	log.Printf("[%v] %s %v", level, msg, fields)
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hwenergy/hwenergy-integration/internal/pkg/config"
	"github.com/hwenergy/hwenergy-integration/internal/pkg/contxt"
	"github.com/hwenergy/hwenergy-integration/internal/pkg/handler"
	"github.com/hwenergy/hwenergy-integration/internal/pkg/hwenergy"
	"github.com/hwenergy/hwenergy-integration/internal/pkg/model"
	"github.com/hwenergy/hwenergy-integration/internal/pkg/mqtt"
	"github.com/hwenergy/hwenergy-integration/internal/pkg/publisher"
	"github.com/hwenergy/hwenergy-integration/internal/pkg/sensors"
)

func EnergyCommand(ctx *cli.Context) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if ctx.IsSet("energy-host") {
		cfg.EnergyCfg.Host = ctx.String("energy-host")
	}
	if ctx.IsSet("timeout") {
		cfg.EnergyCfg.Timeout = ctx.Duration("timeout")
	}
	if ctx.IsSet("poll-interval") {
		cfg.EnergyCfg.PollInterval = ctx.Duration("poll-interval")
	}
	if ctx.IsSet("mqtt-host") {
		cfg.MqttCfg.Host = ctx.String("mqtt-host")
	}
	if ctx.IsSet("mqtt-user") {
		cfg.MqttCfg.Username = ctx.String("mqtt-user")
	}
	if ctx.IsSet("mqtt-pass") {
		cfg.MqttCfg.Password = ctx.String("mqtt-pass")
	}
	if ctx.IsSet("listen-addr") {
		cfg.ListenAddr = ctx.String("listen-addr")
	}
	if ctx.IsSet("log-level") {
		cfg.LogLevel = ctx.String("log-level")
	}
	if cfg.EnergyCfg.Host == "" {
		return errors.New("energy host is required")
	}

	logCfg := zap.NewProductionConfig()
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logCfg.Level = level
	logCfg.OutputPaths = []string{"stdout"}
	logCfg.ErrorOutputPaths = []string{"stdout"}
	logCfg.Sampling = nil
	logger := zap.Must(logCfg.Build(zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)))
	defer func() {
		_ = logger.Sync() // flushes buffer, if any.
	}()
	zap.ReplaceGlobals(logger)

	if cfg.MqttCfg.Host != "" {
		opts := paho_mqtt.NewClientOptions().
			AddBroker(cfg.MqttCfg.Host).
			SetUsername(cfg.MqttCfg.Username).
			SetPassword(cfg.MqttCfg.Password).
			SetClientID("hwenergy-bridge")
		mqttSvc := mqtt.New(paho_mqtt.NewClient(opts))
		if err := mqttSvc.Connect(); err != nil {
			return err
		}
		if err := publisher.RegisterPublisher("mqtt", mqttSvc); err != nil {
			return err
		}
	}

	svc := hwenergy.New(cfg.EnergyCfg.Host,
		hwenergy.WithTimeout(cfg.EnergyCfg.Timeout),
		hwenergy.WithLogger(logger),
	)
	defer svc.Close()

	errorChan := make(chan error, 1000)
	return run(ctx.Context, cfg, svc, errorChan, logger)
}

func run(ctx context.Context, cfg *config.Config, svc EnergyService, errorChan chan error, logger *zap.Logger) error {
	eg, ctx := errgroup.WithContext(ctx)

	device, err := svc.Device(ctx)
	if err != nil {
		return err
	}
	features, err := svc.Features(ctx)
	if err != nil {
		return err
	}
	identity := sensors.Identity(device)
	logger.Info("connected to meter",
		zap.String("model", identity.Model),
		zap.String("serial", identity.SerialNumber),
		zap.Bool("has_state", features.HasState),
	)

	if err := publisher.RegisterDevice(&identity); err != nil {
		return err
	}

	eg.Go(func() error {
		return cronPollReadings(ctx, cfg, svc, identity, features, errorChan)
	})

	srv := &http.Server{
		Handler:      handler.LoggingMiddleware(handler.New(svc).Routes()),
		Addr:         cfg.ListenAddr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	eg.Go(func() error {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	eg.Go(func() error {
		// handle any async errors from the poll loop
		for {
			select {
			case err := <-errorChan:
				if errors.Is(err, errCron) {
					logger.Error("cron error", zap.Error(err))
					return err
				}
				logger.Error("poll error", zap.Error(err))
			case <-ctx.Done():
				logger.Info("context done")
				return ctx.Err()
			}
		}
	})

	return eg.Wait()
}

var errCron = errors.New("cron error")

func cronPollReadings(ctx context.Context, cfg *config.Config, svc EnergyService, identity model.Device, features hwenergy.FeatureSet, errChan chan error) error {
	poll := func() error {
		ctx := contxt.NewContext(cfg.EnergyCfg.PollInterval)
		data, err := svc.Data(ctx)
		if err != nil {
			return err
		}
		statuses := sensors.FromMeteredData(data)
		if features.HasState {
			state, err := svc.State(ctx)
			if err != nil {
				return err
			}
			statuses = append(statuses, sensors.FromState(state)...)
		}
		if features.HasSystem {
			system, err := svc.System(ctx)
			if err != nil {
				return err
			}
			statuses = append(statuses, sensors.FromSystem(system)...)
		}
		return publisher.PublishData(ctx, identity, statuses)
	}

	if err := poll(); err != nil {
		return err
	}

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", cfg.EnergyCfg.PollInterval), func() {
		if err := poll(); err != nil {
			zap.L().Error("error polling meter", zap.Error(err))
			errChan <- errCron
			return
		}
	}); err != nil {
		return err
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}

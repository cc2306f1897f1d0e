package main

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/card-ledger/api"
	"github.com/carson-networks/card-ledger/internal/config"
	"github.com/carson-networks/card-ledger/internal/logging"
	"github.com/carson-networks/card-ledger/internal/operator"
	"github.com/carson-networks/card-ledger/internal/service"
	"github.com/carson-networks/card-ledger/internal/storage"
	"github.com/carson-networks/card-ledger/internal/storage/memory"
)

func main() {
	logger := logging.SetupLogging()
	logrus.Info("card-ledger starting")

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	var store *storage.Storage
	switch envConfig.StorageBackend {
	case "memory":
		store = memory.New(envConfig.LockTimeout).Storage()
	default:
		store, err = storage.NewStorage(envConfig)
		if err != nil {
			logrus.WithError(err).Fatal("storage.NewStorage")
			return
		}
	}
	logrus.WithField("backend", envConfig.StorageBackend).Info("storage ready")

	op := operator.NewOperatorDelegator(store, envConfig.OperatorWorkers)
	op.Start()
	defer op.Stop()

	svc := service.NewService(store, op)

	wg := sync.WaitGroup{}
	wg.Add(1)

	go func() {
		httpRest := api.Rest{
			Logger:  logger,
			Port:    envConfig.HTTPPort,
			Service: svc,
		}
		httpRest.Serve()
	}()

	wg.Wait()
}

// Package main содержит служебную утилиту сервиса доставки баллонов: миграции, пользователи, отчёты.
package main

import (
	"os"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := newRootCmd(os.Stdout, defaultBackend()).Execute(); err != nil {
		logger.Fatal("command failed", zap.Error(err))
	}
}

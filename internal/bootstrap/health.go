package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// healthTimeout - время на проверку одной зависимости
const healthTimeout = 5 * time.Second

// Checker - внешняя зависимость, умеющая проверить соединение
type Checker interface {
	Health(ctx context.Context) error
}

// Dependency - именованная зависимость для проверки при старте
type Dependency struct {
	Name    string
	Checker Checker
}

// CheckHealth проверяет зависимости по очереди и возвращает первую ошибку
func CheckHealth(ctx context.Context, logger *zap.Logger, deps ...Dependency) error {
	for _, dep := range deps {
		checkCtx, cancel := context.WithTimeout(ctx, healthTimeout)
		err := dep.Checker.Health(checkCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("%s health check failed: %w", dep.Name, err)
		}
		logger.Debug("Dependency healthy", zap.String("name", dep.Name))
	}
	return nil
}

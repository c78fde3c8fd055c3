package app

import (
	"fmt"

	authService "github.com/allisson/fieldcrypt/internal/auth/service"
	"github.com/allisson/fieldcrypt/internal/database"
	envelopeUseCase "github.com/allisson/fieldcrypt/internal/envelope/usecase"
	recordHTTP "github.com/allisson/fieldcrypt/internal/record/http"
	recordRepository "github.com/allisson/fieldcrypt/internal/record/repository"
	recordUseCase "github.com/allisson/fieldcrypt/internal/record/usecase"
)

// AdminTokenService returns the admin token service.
func (c *Container) AdminTokenService() authService.AdminTokenService {
	c.adminTokenServiceInit.Do(func() {
		c.adminTokenService = authService.NewAdminTokenService()
	})
	return c.adminTokenService
}

// RecordRepository returns the record repository for the configured database driver.
func (c *Container) RecordRepository() (recordUseCase.RecordRepository, error) {
	store, err := c.recordStore()
	if err != nil {
		return nil, err
	}
	return store, nil
}

// EnvelopeUseCase returns the envelope use case, instrumented with business metrics.
func (c *Container) EnvelopeUseCase() (envelopeUseCase.EnvelopeUseCase, error) {
	var err error
	c.envelopeUseCaseInit.Do(func() {
		c.envelopeUseCase, err = c.initEnvelopeUseCase()
		if err != nil {
			c.initErrors["envelopeUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["envelopeUseCase"]; exists {
		return nil, storedErr
	}
	return c.envelopeUseCase, nil
}

// RotationUseCase returns the rotation use case, instrumented with business metrics.
func (c *Container) RotationUseCase() (envelopeUseCase.RotationUseCase, error) {
	var err error
	c.rotationUseCaseInit.Do(func() {
		c.rotationUseCase, err = c.initRotationUseCase()
		if err != nil {
			c.initErrors["rotationUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["rotationUseCase"]; exists {
		return nil, storedErr
	}
	return c.rotationUseCase, nil
}

// RecordUseCase returns the record use case.
func (c *Container) RecordUseCase() (recordUseCase.RecordUseCase, error) {
	var err error
	c.recordUseCaseInit.Do(func() {
		c.recordUseCase, err = c.initRecordUseCase()
		if err != nil {
			c.initErrors["recordUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recordUseCase"]; exists {
		return nil, storedErr
	}
	return c.recordUseCase, nil
}

// RecordHandler returns the HTTP handler for encryption, records and rotation.
func (c *Container) RecordHandler() (*recordHTTP.RecordHandler, error) {
	var err error
	c.recordHandlerInit.Do(func() {
		c.recordHandler, err = c.initRecordHandler()
		if err != nil {
			c.initErrors["recordHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recordHandler"]; exists {
		return nil, storedErr
	}
	return c.recordHandler, nil
}

// recordStore returns the driver-specific repository, which serves both as the record
// repository and as the rotation store.
func (c *Container) recordStore() (recordStore, error) {
	var err error
	c.recordRepositoryInit.Do(func() {
		c.recordRepository, err = c.initRecordRepository()
		if err != nil {
			c.initErrors["recordRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recordRepository"]; exists {
		return nil, storedErr
	}
	return c.recordRepository, nil
}

// initRecordRepository creates the record repository based on the database driver.
func (c *Container) initRecordRepository() (recordStore, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for record repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return recordRepository.NewPostgreSQLRecordRepository(db), nil
	case database.DriverMySQL:
		return recordRepository.NewMySQLRecordRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// newEnvelopeUseCase builds the uninstrumented envelope use case.
func (c *Container) newEnvelopeUseCase() (envelopeUseCase.EnvelopeUseCase, error) {
	keyProvider, err := c.KeyProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get key provider for envelope use case: %w", err)
	}
	return envelopeUseCase.NewEnvelopeUseCase(keyProvider, c.AEADManager()), nil
}

// initEnvelopeUseCase creates the envelope use case with metrics instrumentation.
func (c *Container) initEnvelopeUseCase() (envelopeUseCase.EnvelopeUseCase, error) {
	useCase, err := c.newEnvelopeUseCase()
	if err != nil {
		return nil, err
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for envelope use case: %w", err)
	}

	return envelopeUseCase.NewEnvelopeUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initRotationUseCase creates the rotation use case with metrics instrumentation.
//
// The rotation use case decrypts through the uninstrumented envelope use case so that
// rotation reads are counted once, under the rotation domain.
func (c *Container) initRotationUseCase() (envelopeUseCase.RotationUseCase, error) {
	envelopes, err := c.newEnvelopeUseCase()
	if err != nil {
		return nil, err
	}

	keyProvider, err := c.KeyProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get key provider for rotation use case: %w", err)
	}

	store, err := c.recordStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get record store for rotation use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for rotation use case: %w", err)
	}

	useCase := envelopeUseCase.NewRotationUseCase(
		envelopeUseCase.RotationConfig{
			BatchSize:       c.config.RotationBatchSize,
			Concurrency:     c.config.RotationConcurrency,
			WritesPerSecond: c.config.RotationWritesPerSec,
		},
		envelopes,
		keyProvider,
		c.AEADManager(),
		store,
		c.Logger(),
	)

	return envelopeUseCase.NewRotationUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initRecordUseCase creates the record use case with all its dependencies.
func (c *Container) initRecordUseCase() (recordUseCase.RecordUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for record use case: %w", err)
	}

	recordRepo, err := c.RecordRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get record repository for record use case: %w", err)
	}

	envelopes, err := c.EnvelopeUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope use case for record use case: %w", err)
	}

	rotation, err := c.RotationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get rotation use case for record use case: %w", err)
	}

	return recordUseCase.NewRecordUseCase(txManager, recordRepo, envelopes, rotation), nil
}

// initRecordHandler creates the record HTTP handler.
func (c *Container) initRecordHandler() (*recordHTTP.RecordHandler, error) {
	envelopes, err := c.EnvelopeUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope use case for record handler: %w", err)
	}

	records, err := c.RecordUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get record use case for record handler: %w", err)
	}

	return recordHTTP.NewRecordHandler(envelopes, records, c.Logger()), nil
}

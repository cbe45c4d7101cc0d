// Command seed wipes the database and loads two demo accounts with sample tasks.
package main

import (
	"context"
	"log/slog"

	"taskapp/config"
	"taskapp/internal/domain/entity"
	"taskapp/internal/domain/repository"
	"taskapp/internal/domain/service"
	"taskapp/internal/errors"
	"taskapp/internal/infra/auth"
	logs "taskapp/internal/infra/log"
	"taskapp/internal/infra/persistence/postgres"

	"go.uber.org/fx"
)

const seedPassword = "password123"

type seedUser struct {
	email string
	name  string
	tasks [][2]string
}

var seedUsers = []seedUser{
	{
		email: "test1@example.com",
		name:  "Test User 1",
		tasks: [][2]string{
			{"Learn TypeScript", "Complete TypeScript course"},
			{"Build API", "Create REST API with Express"},
			{"Setup Database", "Configure PostgreSQL database"},
			{"Write Tests", "Add unit and integration tests"},
			{"Deploy App", "Deploy to production"},
		},
	},
	{
		email: "test2@example.com",
		name:  "Test User 2",
		tasks: [][2]string{
			{"Design UI", "Create mobile app UI mockups"},
			{"Implement Auth", "Add JWT authentication"},
			{"Setup CI/CD", "Configure GitHub Actions"},
		},
	},
}

type seedParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	TxManager repository.TransactionManager
	Hasher    service.PasswordHasher
	Logger    *slog.Logger
}

func main() {
	fx.New(
		fx.Provide(
			config.New,
			logs.New,
			postgres.New,
			postgres.NewTransactionManager,
			auth.NewScryptHasher,
		),
		fx.NopLogger,
		fx.Invoke(registerSeed),
	).Run()
}

// registerSeed runs after the database hook has pinged and migrated the schema.
func registerSeed(params seedParams) {
	params.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			exitCode := 0
			if err := seed(ctx, params.TxManager, params.Hasher); err != nil {
				params.Logger.Error("Seed failed", slog.Any("error", err))
				exitCode = 1
			} else {
				params.Logger.Info("Database seeded successfully")
			}

			return params.Shutdown(fx.ExitCode(exitCode))
		},
	})
}

func seed(ctx context.Context, txManager repository.TransactionManager, hasher service.PasswordHasher) error {
	// Both demo accounts share one credential, hashed once.
	credential, err := hasher.Hash(seedPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash seed password")
	}

	return txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		if err := repos.TaskRepo().DeleteAll(ctx); err != nil {
			return err
		}
		if err := repos.UserRepo().DeleteAll(ctx); err != nil {
			return err
		}

		for _, su := range seedUsers {
			user := &entity.User{Email: su.email, Name: su.name, PasswordHash: credential}
			if err := repos.UserRepo().Create(ctx, user); err != nil {
				return errors.Wrapf(err, "failed to create %s", su.email)
			}

			for _, t := range su.tasks {
				description := t[1]
				task := &entity.Task{Title: t[0], Description: &description, UserID: user.ID}
				if err := repos.TaskRepo().Create(ctx, task); err != nil {
					return errors.Wrapf(err, "failed to create task %q", t[0])
				}
			}
		}

		return nil
	})
}

package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/stands-ims/config"
	"github.com/oksasatya/stands-ims/internal/domain/entity"
	repo "github.com/oksasatya/stands-ims/internal/domain/repository"
	pginfra "github.com/oksasatya/stands-ims/internal/infrastructure/postgres"
	"github.com/oksasatya/stands-ims/pkg/helpers"
)

var seedRoles = map[string][]string{
	"editors": {
		entity.PermViewPerson,
		entity.PermAddPerson,
		entity.PermViewTemperatureRecord,
		entity.PermAddTemperatureRecord,
	},
	"viewers": {
		entity.PermViewPerson,
		entity.PermViewTemperatureRecord,
	},
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	tx := pginfra.NewTxManager(pool)
	roles := pginfra.NewRoleRepository(pool)
	accounts := pginfra.NewAccountRepository(pool)
	profiles := pginfra.NewProfileRepository(pool)
	now := time.Now()

	for name, perms := range seedRoles {
		role := &entity.Role{ID: uuid.NewString(), Name: name, Permissions: perms, CreatedAt: now, UpdatedAt: now}
		err := tx.WithinTx(ctx, func(ctx context.Context) error { return roles.Create(ctx, role) })
		switch {
		case errors.Is(err, repo.ErrConflict):
			logger.WithField("role", name).Info("role already present")
		case err != nil:
			logger.Fatalf("failed to seed role %s: %v", name, err)
		default:
			logger.WithFields(logrus.Fields{"role": name, "permissions": perms}).Info("role created")
		}
	}

	username := getenv("SEED_SUPERUSER_USERNAME", "admin")
	password := getenv("SEED_SUPERUSER_PASSWORD", "password123")
	if _, err := accounts.GetByUsername(ctx, username); err == nil {
		logger.WithField("username", username).Info("superuser already present")
		return
	} else if !errors.Is(err, repo.ErrNotFound) {
		logger.Fatalf("failed to look up superuser: %v", err)
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		logger.Fatalf("failed to hash password: %v", err)
	}
	acc, err := entity.NewAccount(entity.AccountInput{
		Username:    username,
		Email:       getenv("SEED_SUPERUSER_EMAIL", "admin@stands.local"),
		FirstName:   "Admin",
		PhoneNumber: getenv("SEED_SUPERUSER_PHONE", "+254700000000"),
	}, hash, now)
	if err != nil {
		logger.Fatalf("invalid superuser: %v", err)
	}
	acc.IsStaff, acc.IsSuperuser, acc.IsVerified = true, true, true

	err = tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := accounts.Create(ctx, acc); err != nil {
			return err
		}
		return profiles.Create(ctx, entity.NewProfile(acc.ID, now))
	})
	if err != nil {
		logger.Fatalf("failed to seed superuser: %v", err)
	}
	logger.WithFields(logrus.Fields{"id": acc.ID, "username": acc.Username, "email": acc.Email}).Info("superuser created")
}

package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	departmentserrors "roombook/internal/departments/errors"
	departmentsrepo "roombook/internal/departments/repository"
	roomserrors "roombook/internal/rooms/errors"
	roomsrepo "roombook/internal/rooms/repository"
	userserrors "roombook/internal/users/errors"
	usersrepo "roombook/internal/users/repository"
	"roombook/pkg/config"
	"roombook/pkg/model"
)

const JobName = "seed"

// Seeds the initial admin account plus a handful of rooms and
// departments for a fresh environment. Re-running is safe: rows that
// already exist are skipped.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	seedAdmin(ctx, cfg)
	seedRooms(ctx, cfg)
	seedDepartments(ctx, cfg)
	cfg.Log.Info("Seeding completed")
}

func seedAdmin(ctx context.Context, cfg *config.Config) {
	email := getEnv("SEED_ADMIN_EMAIL", "admin@example.com")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		cfg.Log.Fatal("SEED_ADMIN_PASSWORD must be set")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		cfg.Log.Fatal("Failed to hash admin password", "error", err)
	}

	repo := usersrepo.NewMongoUserRepository(cfg)
	admin := &model.User{
		FullName:     getEnv("SEED_ADMIN_NAME", "System Administrator"),
		Email:        email,
		PasswordHash: string(hash),
		Department:   "IT",
		Role:         model.RoleAdmin,
	}

	if err := repo.Create(ctx, admin); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateEmail) {
			cfg.Log.Info("Admin user already exists", "email", email)
			return
		}
		cfg.Log.Fatal("Failed to create admin user", "error", err)
	}
	cfg.Log.Info("Admin user created", "email", email)
}

func seedRooms(ctx context.Context, cfg *config.Config) {
	rooms := []*model.Room{
		{RoomNumber: "101", RoomName: "Small Meeting Room", Capacity: 4, Facilities: []string{"whiteboard"}},
		{RoomNumber: "102", RoomName: "Medium Meeting Room", Capacity: 8, Facilities: []string{"whiteboard", "projector"}},
		{RoomNumber: "201", RoomName: "Large Conference Room", Capacity: 20, Facilities: []string{"projector", "video conferencing"}},
	}

	repo := roomsrepo.NewMongoRoomRepository(cfg)
	for _, room := range rooms {
		if err := repo.Create(ctx, room); err != nil {
			if errors.Is(err, roomserrors.ErrDuplicateRoomNumber) {
				cfg.Log.Info("Room already exists", "room_number", room.RoomNumber)
				continue
			}
			cfg.Log.Fatal("Failed to create room", "room_number", room.RoomNumber, "error", err)
		}
		cfg.Log.Info("Room created", "room_number", room.RoomNumber)
	}
}

func seedDepartments(ctx context.Context, cfg *config.Config) {
	departments := []*model.Department{
		{Name: "Engineering", Code: "eng"},
		{Name: "Human Resources", Code: "hr"},
		{Name: "IT", Code: "it"},
		{Name: "Sales", Code: "sales"},
	}

	repo := departmentsrepo.NewMongoDepartmentRepository(cfg)
	for _, department := range departments {
		if err := repo.Create(ctx, department); err != nil {
			if errors.Is(err, departmentserrors.ErrDuplicateCode) {
				cfg.Log.Info("Department already exists", "code", department.Code)
				continue
			}
			cfg.Log.Fatal("Failed to create department", "code", department.Code, "error", err)
		}
		cfg.Log.Info("Department created", "code", department.Code)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ssf-backend/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := bootstrap.New(ctx)
	if err != nil {
		panic("app create: " + err.Error())
	}
	defer srv.Close()

	// Verify connections before printing
	sqlDB, err := srv.DB.DB()
	if err != nil {
		panic("database: get DB: " + err.Error())
	}
	if err := sqlDB.Ping(); err != nil {
		panic("database connection failed: " + err.Error())
	}
	fmt.Println("Database connected")
	if srv.Rdb != nil {
		if err := srv.Rdb.Ping(ctx).Err(); err != nil {
			panic("Redis connection failed: " + err.Error())
		}
		fmt.Println("Redis connected")
	} else {
		fmt.Println("Redis not configured, broadcasting in-process")
	}
	port := srv.Config.Port
	fmt.Printf("Context %s\n", srv.Runtime.ID)
	fmt.Printf("Server running at http://localhost:%s\n", port)
	fmt.Printf("Health check: http://localhost:%s/health/json\n", port)
	fmt.Println("---")

	go func() {
		<-ctx.Done()
		_ = srv.App.Shutdown()
	}()
	if err := srv.App.Listen(":" + port); err != nil {
		panic(err)
	}
}

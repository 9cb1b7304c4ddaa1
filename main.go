package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/royburns/fixcity/internal/auth"
	"github.com/royburns/fixcity/internal/db"
	"github.com/royburns/fixcity/internal/middleware"
	"github.com/royburns/fixcity/internal/racks"
	"github.com/royburns/fixcity/internal/seeds"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	auth.Init()
	racks.Init()

	if path := os.Getenv("SEED_FILE"); path != "" {
		if err := seeds.SeedAll(path); err != nil {
			fmt.Println("Seeding failed:", err)
			os.Exit(1)
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)

	r.Mount("/auth", auth.SetupRoutes())
	r.Mount("/", racks.SetupRoutes())

	fmt.Println("Server listening on port :" + port + "...")

	http.ListenAndServe("0.0.0.0:"+port, r)
}

// Command seed loads a starter set of vacancies into an empty board so a
// fresh deployment isn't a blank page. Safe to run repeatedly: it does
// nothing once any job exists.
package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bdec/jobboard/internal/config"
	"github.com/bdec/jobboard/internal/model"
	sqliteRepo "github.com/bdec/jobboard/internal/repository/sqlite"
	"github.com/bdec/jobboard/internal/service"
)

var vacancies = []model.Job{
	{
		Title:        "Asistente Administrativo",
		Company:      "Cooperativa El Futuro",
		Location:     "Sector Centro",
		Category:     "Servicios",
		Salary:       "$450 - $550",
		Modality:     model.ModalityOnSite,
		Requirements: "• Título de bachiller o técnico en administración\n• Manejo intermedio de Excel\n• Experiencia de 1 año en tareas de oficina",
		Description:  "Buscamos una persona organizada para apoyar en la gestión documental y atención al cliente de nuestra cooperativa.",
	},
	{
		Title:        "Vendedor de Piso",
		Company:      "Tiendas La Economía",
		Location:     "Zona Norte",
		Category:     "Comercio",
		Salary:       "$380 - $420 + Comisiones",
		Modality:     model.ModalityOnSite,
		Requirements: "• Excelente trato al público\n• Dinamismo y proactividad\n• Disponibilidad para turnos rotativos",
		Description:  "Únete a nuestro equipo de ventas para brindar la mejor experiencia de compra a nuestros clientes.",
	},
	{
		Title:        "Repartidor en Moto",
		Company:      "Express Comunitario",
		Location:     "Pueblo Viejo",
		Category:     "Logística",
		Salary:       "$400 - $600",
		Modality:     model.ModalityOnSite,
		Requirements: "• Moto propia en buen estado\n• Licencia de conducir vigente\n• Conocimiento de las rutas locales",
		Description:  "Encárgate de entregar pedidos a domicilio de manera rápida y segura dentro de la comunidad.",
	},
	{
		Title:        "Recepcionista",
		Company:      "Hotel Plaza Central",
		Location:     "Sector Centro",
		Category:     "Turismo",
		Salary:       "$480 - $520",
		Modality:     model.ModalityOnSite,
		Requirements: "• Dominio de inglés (básico/intermedio)\n• Manejo de sistemas de reserva\n• Buena presencia y atención al cliente",
		Description:  "Serás el primer punto de contacto para nuestros huéspedes, gestionando check-ins, check-outs y consultas.",
	},
	{
		Title:        "Programador Junior (React)",
		Company:      "TechSoluciones",
		Location:     "Remoto",
		Category:     "Tecnología",
		Salary:       "$800 - $1200",
		Modality:     model.ModalityRemote,
		Requirements: "• Conocimientos sólidos en React y TypeScript\n• Capacidad de aprendizaje rápido\n• Inglés técnico",
		Description:  "Participa en el desarrollo de aplicaciones web innovadoras trabajando desde la comodidad de tu casa.",
	},
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := config.Load()
	ctx := context.Background()

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("failed to create database directory", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	db, err := sqliteRepo.New(ctx, cfg.DBPath)
	if err != nil {
		logger.Error("failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	jobs := db.Jobs()

	count, err := jobs.Count(ctx)
	if err != nil {
		logger.Error("failed to count jobs", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if count > 0 {
		logger.Info("jobs already present, nothing to seed", slog.Int64("count", count))
		return
	}

	// Go through the service so seeded rows pass the same validation as
	// posted ones.
	svc := service.NewJobService(jobs, logger)
	for i := range vacancies {
		if _, err := svc.Create(ctx, &vacancies[i]); err != nil {
			logger.Error("failed to seed job",
				slog.String("title", vacancies[i].Title),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	logger.Info("seeded vacancies", slog.Int("count", len(vacancies)))
}

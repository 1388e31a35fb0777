package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path (por defecto config.yaml o variables de entorno)." type:"path"`

	Validate ValidateCmd `cmd:"" help:"Validar y normalizar horarios de recordatorio HH:MM."`
	Plan     PlanCmd     `cmd:"" help:"Mostrar el plan diario de triggers sin registrarlos."`
	Sync     SyncCmd     `cmd:"" help:"Ejecutar una pasada del planner y listar las claves registradas."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("medctl"),
		kong.Description("Herramientas de operación para los recordatorios de medicación"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := kctx.Run(&Context{Ctx: ctx, ConfigPath: CLI.Config, Out: os.Stdout})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

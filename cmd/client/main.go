// Package main implements the AutomotrizJJ seller terminal: an interactive
// client that authenticates against the sales API, searches the
// available-vehicle inventory and registers sales.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/client/api"
	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/client/credstore"
	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/client/route"
	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/client/saleform"
	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/client/search"
	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/client/session"
	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/logger"
	"go.uber.org/zap"
)

var (
	version   string
	buildDate string
)

// loginView prompts for credentials until login succeeds or the seller
// quits. Returns false when the terminal should exit.
func loginView(scanner *bufio.Scanner, ctrl *session.Controller) bool {
	fmt.Println("AUTOMOTRIZ JJ — Login (escriba 'exit' para salir)")

	fmt.Print("Username: ")
	if !scanner.Scan() {
		return false
	}
	username := strings.TrimSpace(scanner.Text())
	if username == "exit" {
		return false
	}

	fmt.Print("Password: ")
	if !scanner.Scan() {
		return false
	}
	password := strings.TrimSpace(scanner.Text())

	if username == "" || password == "" {
		fmt.Println("Por favor complete todos los campos")
		return true
	}

	result := ctrl.Login(context.Background(), username, password)
	if !result.Success {
		fmt.Println(result.Message)
	}
	return true
}

// sellSale walks the seller through the sale form: vehicle search and
// selection first, then the buyer fields, then submission.
func sellSale(scanner *bufio.Scanner, picker *search.Picker, form *saleform.Form) {
	fmt.Print("Buscar auto (marca, modelo o año): ")
	if !scanner.Scan() {
		return
	}
	picker.Focus()
	picker.SetQuery(strings.TrimSpace(scanner.Text()))

	filtered := picker.Filtered()
	if len(filtered) == 0 {
		fmt.Println("No se encontraron autos")
		picker.ClickOutside()
		return
	}
	for i, v := range filtered {
		line := fmt.Sprintf("%2d) %s", i+1, search.DisplayText(v))
		if v.ReferencePrice > 0 {
			line += fmt.Sprintf("  S/. %.2f", v.ReferencePrice)
		}
		if v.Stock > 0 {
			line += fmt.Sprintf("  (stock: %d)", v.Stock)
		}
		fmt.Println(line)
	}

	fmt.Print("Número de auto: ")
	if !scanner.Scan() {
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		fmt.Println("Selección inválida")
		picker.ClickOutside()
		return
	}
	id, text, ok := picker.Select(n - 1)
	if !ok {
		fmt.Println("Selección inválida")
		picker.ClickOutside()
		return
	}
	form.SetVehicle(id, text)
	fmt.Println("Auto seleccionado:", text)

	prompts := []struct {
		label string
		field *string
	}{
		{"Tipo de compra (Cash/Credit)", &form.Fields.PurchaseType},
		{"Monto o financiamiento", &form.Fields.AmountFinancing},
		{"Nombre del comprador", &form.Fields.BuyerName},
		{"DNI del comprador (8 dígitos)", &form.Fields.BuyerNationalID},
		{"Contacto del comprador", &form.Fields.BuyerContact},
	}
	for _, p := range prompts {
		fmt.Printf("%s: ", p.label)
		if !scanner.Scan() {
			return
		}
		*p.field = strings.TrimSpace(scanner.Text())
	}

	dialog := form.Submit(context.Background())
	fmt.Printf("[%s] %s\n%s\n", dialog.Kind, dialog.Title, dialog.Message)
	form.CloseDialog()
}

// ventaView runs the protected sales shell. Returns false when the
// terminal should exit; returning true hands control back to the router,
// which re-resolves the view from the session state.
func ventaView(scanner *bufio.Scanner, client *api.Client, ctrl *session.Controller, log *zap.Logger) bool {
	snap := ctrl.Snapshot()
	if snap.User != nil {
		fmt.Printf("\nFecha: %s\nSucursal: %s\nVendedor: %s (%s)\n",
			time.Now().Format("2006-01-02"), snap.User.Branch, snap.User.FullName, snap.User.SellerCode)
	}

	// The picker loads the inventory once per view; a failed load just
	// leaves the candidate list empty.
	picker := search.NewPicker(client, log)
	picker.Load(context.Background())

	for {
		fmt.Print("automotriz-jj> ")
		if !scanner.Scan() {
			return false
		}
		args := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Comandos: help, autos [búsqueda], vender, misventas [n], whoami, perfil, salud, logout, exit")
		case "autos":
			picker.Focus()
			picker.SetQuery(strings.Join(args[1:], " "))
			filtered := picker.Filtered()
			if len(filtered) == 0 {
				fmt.Println("No se encontraron autos")
			}
			for _, v := range filtered {
				fmt.Println(search.DisplayText(v))
			}
			picker.ClickOutside()
		case "vender":
			form := saleform.New(client, log)
			sellSale(scanner, picker, form)
		case "misventas":
			limit := 50
			if len(args) > 1 {
				if n, err := strconv.Atoi(args[1]); err == nil {
					limit = n
				}
			}
			history, err := client.FetchMySales(context.Background(), limit)
			if err != nil {
				fmt.Println("Error al obtener ventas")
				log.Error("failed to fetch sales history", zap.Error(err))
				break
			}
			fmt.Printf("Ventas de %s (%s): %d\n", history.Seller, history.Branch, history.Total)
			for _, s := range history.Sales {
				fmt.Printf("#%d %s — auto %d, %s, comprador %s (DNI %s)\n",
					s.ID, s.SoldAt, s.VehicleID, s.PurchaseType, s.BuyerName, s.BuyerNationalID)
			}
		case "whoami":
			if u := ctrl.Snapshot().User; u != nil {
				fmt.Printf("%s <%s> — %s, código %s, sucursal %s\n",
					u.FullName, u.Email, u.Role, u.SellerCode, u.Branch)
			}
		case "perfil":
			// Fetches the profile from the server instead of the local cache.
			profile, err := client.Me(context.Background())
			if err != nil {
				fmt.Println("Error al obtener el perfil")
				log.Error("failed to fetch profile", zap.Error(err))
				break
			}
			fmt.Printf("%s <%s> — %s, código %s, sucursal %s/%s\n",
				profile.FullName, profile.Email, profile.Role, profile.SellerCode,
				profile.BranchProvince, profile.BranchDistrict)
		case "salud":
			if err := client.Health(context.Background()); err != nil {
				fmt.Println("Servidor no disponible")
			} else {
				fmt.Println("Servidor OK")
			}
		case "logout":
			ctrl.Logout()
			fmt.Println("Sesión cerrada")
			return true
		case "exit":
			fmt.Println("Hasta luego")
			return false
		default:
			fmt.Println("Comando desconocido. Escriba 'help' para ver la lista.")
		}

		// A 401 on any of the calls above invalidates the session; hand
		// control back so the router redirects to the login view.
		if !ctrl.Snapshot().IsAuthenticated {
			fmt.Println("Sesión expirada, vuelva a iniciar sesión")
			return true
		}
	}
}

// main parses command-line flags, wires the client stack and runs the
// view loop.
func main() {
	var (
		baseURL   string
		stateFile string
		logLevel  string
		showVer   bool
	)

	flag.StringVar(&baseURL, "url", "http://localhost:8000", "server base URL")
	flag.StringVar(&stateFile, "state", ".automotrizjj.json", "path to the credential state file")
	flag.StringVar(&logLevel, "loglevel", "Warn", "diagnostic log level")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("AutomotrizJJ Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(logLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	zapLogger := log.Log

	store := credstore.New(stateFile, zapLogger)
	client := api.New(baseURL, store, zapLogger)
	ctrl := session.New(client, store, zapLogger)
	// Any 401, from any call, funnels into the controller.
	client.OnSessionInvalidated(ctrl.Invalidate)
	ctrl.Restore()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		switch route.Resolve(ctrl.Snapshot(), route.Root) {
		case route.Login:
			if !loginView(scanner, ctrl) {
				return
			}
		case route.Venta:
			if !ventaView(scanner, client, ctrl, zapLogger) {
				return
			}
		}
	}
}

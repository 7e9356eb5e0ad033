// seed_partners carga el directorio de clientes/proveedores desde un CSV exportado del sistema anterior.
// Columnas: code;short_name;name (separador ';', primera fila de encabezado). Los exportes antiguos
// vienen en ISO-8859-1: usar -latin1.
//
// Uso: go run ./cmd/seed_partners [-latin1] ruta/partners.csv
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/trade-ledger/internal/domain/entity"
	"github.com/jhoicas/trade-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/trade-ledger/pkg/config"
	"github.com/jhoicas/trade-ledger/pkg/logger"
)

// partnerNamespace espacio para ids estables por código: recargar el mismo archivo no duplica filas.
var partnerNamespace = uuid.MustParse("9b1f3c52-6a0e-4d53-9f2b-3a7c1e8d4b10")

func main() {
	latin1 := flag.Bool("latin1", false, "el archivo está en ISO-8859-1")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed_partners [-latin1] archivo.csv")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	partners, err := parsePartners(f, *latin1)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	repo := postgres.NewPartnerRepository(pool)
	for _, p := range partners {
		if err := repo.Upsert(ctx, p); err != nil {
			pool.Close()
			log.Fatal().Err(err).Str("code", p.Code).Msg("guardar partner")
		}
	}
	log.Info().Int("partners", len(partners)).Msg("directorio cargado")
}

// parsePartners lee code;short_name;name. Filas sin código ni nombre corto se omiten:
// no se podrían resolver desde ningún registro.
func parsePartners(r io.Reader, latin1 bool) ([]*entity.Partner, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("encabezado: %w", err)
	}

	now := time.Now().UTC()
	seen := make(map[string]struct{})
	var out []*entity.Partner
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		field := func(i int) string {
			if i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}
		p := &entity.Partner{Code: field(0), ShortName: field(1), Name: field(2), CreatedAt: now}
		if p.Code == "" && p.ShortName == "" {
			continue
		}
		key := p.Code
		if key == "" {
			key = "short:" + p.ShortName
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		p.ID = uuid.NewSHA1(partnerNamespace, []byte(key)).String()
		if p.Name == "" {
			p.Name = p.ShortName
		}
		out = append(out, p)
	}
	return out, nil
}

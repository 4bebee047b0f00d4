// Cartoshare - Map Gallery Publishing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartoshare

// Package main is the command-line entry point for Cartoshare.
//
// Cartoshare publishes user-generated map artifacts (map image, blank map
// variant, auto-derived thumbnail) to a hosted gallery over its bearer-token
// HTTP API.
//
// # Commands
//
//	cartoshare publish -map map.png [-blank blank.png] -name "My Map" -category 3
//	cartoshare categories
//	cartoshare maps
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables: CARTOSHARE_GALLERY_URL, CARTOSHARE_GALLERY_USERNAME,
//     CARTOSHARE_GALLERY_PASSWORD, CARTOSHARE_LOG_LEVEL, CARTOSHARE_LOG_FORMAT
//   - Config file (config.yaml, or path from CARTOSHARE_CONFIG)
//   - Built-in defaults
//
// The process exits non-zero when the requested operation fails.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/tomtom215/cartoshare/internal/config"
	"github.com/tomtom215/cartoshare/internal/gallery"
	"github.com/tomtom215/cartoshare/internal/logging"
	"github.com/tomtom215/cartoshare/internal/models"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cartoshare: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := gallery.NewClient(&cfg.Gallery)

	var runErr error
	switch os.Args[1] {
	case "publish":
		runErr = runPublish(ctx, client, os.Args[2:])
	case "categories":
		runErr = runCategories(ctx, client)
	case "maps":
		runErr = runMaps(ctx, client)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "cartoshare: unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(2)
	}

	if runErr != nil {
		logging.Err(runErr).Msg("Command failed")
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Usage: cartoshare <command> [flags]

Commands:
  publish     Publish a map to the gallery
  categories  List gallery categories
  maps        List published maps

Publish flags:
  -map PATH         Full map image file
  -blank PATH       Blank map variant image file
  -name NAME        Map display name (required)
  -description TEXT Map description
  -author NAME      Author display name
  -category ID      Gallery category ID
`)
}

// runPublish reads the image files, assembles the MapInfo and drives one
// publish call.
func runPublish(ctx context.Context, client *gallery.Client, args []string) error {
	fs := flag.NewFlagSet("publish", flag.ExitOnError)
	mapPath := fs.String("map", "", "full map image file")
	blankPath := fs.String("blank", "", "blank map variant image file")
	name := fs.String("name", "", "map display name")
	description := fs.String("description", "", "map description")
	author := fs.String("author", "", "author display name")
	category := fs.Int("category", 0, "gallery category ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	info := &models.MapInfo{
		Name:        *name,
		Description: *description,
		Author:      *author,
		CategoryID:  *category,
	}

	if *mapPath != "" {
		data, ext, err := readImageFile(*mapPath)
		if err != nil {
			return err
		}
		info.MapImageData = data
		info.ImageExtension = ext
	}
	if *blankPath != "" {
		data, ext, err := readImageFile(*blankPath)
		if err != nil {
			return err
		}
		info.BlankMapImageData = data
		if info.ImageExtension == "" {
			info.ImageExtension = ext
		}
	}

	result := client.Publish(ctx, info)
	if !result.Success {
		msg := "publish failed"
		if result.ErrorMessage != nil {
			msg = *result.ErrorMessage
		}
		return fmt.Errorf("%s", msg)
	}

	if result.URL != nil {
		fmt.Printf("Published: %s\n", *result.URL)
	} else {
		fmt.Println("Published.")
	}
	return nil
}

func runCategories(ctx context.Context, client *gallery.Client) error {
	categories, err := client.GetAllCategories(ctx)
	if err != nil {
		return err
	}
	for _, category := range categories {
		fmt.Printf("%4d  %s\n", category.ID, category.Name)
	}
	return nil
}

func runMaps(ctx context.Context, client *gallery.Client) error {
	maps, err := client.GetAllMaps(ctx)
	if err != nil {
		return err
	}
	for _, m := range maps {
		fmt.Printf("%4d  %-30s  %-20s  %s\n", m.ID, m.Name, m.Author, m.URL)
	}
	return nil
}

// readImageFile loads an image file and returns its bytes plus the
// extension hint (without the leading dot) expected by the gallery.
func readImageFile(path string) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image %s: %w", path, err)
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		ext = "png"
	}
	return data, ext, nil
}

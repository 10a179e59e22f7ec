// Package config gathers the walk-through's settings from defaults, .env
// files and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"hall-of-fame/internal/spotify"
)

// Environment variables read by Load.
const (
	EnvAssets       = "HALL_ASSETS"
	EnvFontRegular  = "HALL_FONT"
	EnvFontSemibold = "HALL_FONT_SEMIBOLD"
	EnvWidth        = "HALL_WIDTH"
	EnvHeight       = "HALL_HEIGHT"
	EnvFullscreen   = "HALL_FULLSCREEN"
	EnvVolume       = "HALL_VOLUME"
	EnvClientID     = "SPOTIFY_CLIENT_ID"
	EnvClientSecret = "CLIENT_SECRET"
	EnvToken        = "SPOTIFY_TOKEN"
	EnvLoginAddr    = "SPOTIFY_LOGIN_ADDR"
)

type Config struct {
	Width      int
	Height     int
	Fullscreen bool

	// AssetBase is a directory or http(s) URL holding images, models and
	// the static track documents.
	AssetBase string
	// FontRegular and FontSemibold are optional TTF/OTF paths; the Go fonts
	// are used when empty.
	FontRegular  string
	FontSemibold string
	Volume       float64

	ClientID     string
	ClientSecret string
	// Token, when set, skips the browser login.
	Token     string
	LoginAddr string
}

func Default() Config {
	return Config{
		Width:     1280,
		Height:    720,
		AssetBase: "assets",
		Volume:    0.2,
		ClientID:  spotify.ClientID,
		LoginAddr: spotify.LoginAddr,
	}
}

// Load reads the given .env files (".env" when none are named; missing
// files are skipped) into the process environment without overriding it,
// then overlays the environment onto Default().
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: %s: %w", f, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv overlays the variables visible through lookup onto Default().
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str(EnvAssets, &cfg.AssetBase)
	str(EnvFontRegular, &cfg.FontRegular)
	str(EnvFontSemibold, &cfg.FontSemibold)
	str(EnvClientID, &cfg.ClientID)
	str(EnvClientSecret, &cfg.ClientSecret)
	str(EnvToken, &cfg.Token)
	str(EnvLoginAddr, &cfg.LoginAddr)

	var errs []error
	num := func(key string, dst *int) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			errs = append(errs, fmt.Errorf("%s=%q: want a positive integer", key, v))
			return
		}
		*dst = n
	}
	num(EnvWidth, &cfg.Width)
	num(EnvHeight, &cfg.Height)

	if v, ok := lookup(EnvFullscreen); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s=%q: %w", EnvFullscreen, v, err))
		}
		cfg.Fullscreen = b
	}
	if v, ok := lookup(EnvVolume); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 1 {
			errs = append(errs, fmt.Errorf("%s=%q: want a number in [0, 1]", EnvVolume, v))
		} else {
			cfg.Volume = f
		}
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// RedirectURI is the loopback callback registered with the authorize URL.
func (c Config) RedirectURI() string {
	return "http://" + c.LoginAddr + "/callback"
}

package config // package config loads application configuration from environment variables

import (
    "fmt"     // fmt formats parse errors for room seeds
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "strings" // strings splits the room seed list

    "github.com/joho/godotenv" // godotenv loads a local .env file when present
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
    Env          string     // application environment (e.g. "dev", "prod")
    Port         string     // HTTP port to listen on
    JWTSecret    string     // secret used to sign and verify JWTs
    AccessTTLMin int        // access token time-to-live in minutes
    Rooms        []RoomSeed // rooms opened at startup
}

// RoomSeed is one entry of CINEMA_ROOMS.
type RoomSeed struct {
    Movie    string
    Capacity uint32
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env file in the working directory is loaded first if it
// exists.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    _ = godotenv.Load() // load .env if present, ignore error
    rooms, err := ParseRooms(os.Getenv("CINEMA_ROOMS"))
    if err != nil {
        log.Fatalf("invalid CINEMA_ROOMS: %v", err)
    }
    return Config{
        Env:          envStr("APP_ENV", "dev"),
        Port:         envStr("APP_PORT", "8080"),
        JWTSecret:    must("JWT_SECRET"),
        AccessTTLMin: envInt("ACCESS_TOKEN_TTL_MIN", 60),
        Rooms:        rooms,
    }
}

// ParseRooms parses a comma separated list of Movie=capacity pairs, e.g.
// "Jurassic Park=10,Star Wars=50".  Blank entries are skipped.  A movie
// may contain spaces but not '=' or ','.
func ParseRooms(s string) ([]RoomSeed, error) {
    var out []RoomSeed
    for _, part := range strings.Split(s, ",") {
        part = strings.TrimSpace(part)
        if part == "" {
            continue
        }
        movie, capStr, ok := strings.Cut(part, "=")
        movie = strings.TrimSpace(movie)
        if !ok || movie == "" {
            return nil, fmt.Errorf("entry %q: want Movie=capacity", part)
        }
        n, err := strconv.ParseUint(strings.TrimSpace(capStr), 10, 32)
        if err != nil {
            return nil, fmt.Errorf("entry %q: invalid capacity: %w", part, err)
        }
        out = append(out, RoomSeed{Movie: movie, Capacity: uint32(n)})
    }
    return out, nil
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

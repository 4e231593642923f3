// v1
// internal/config/config.go
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/krish12388/EcoAgent/internal/campus"
)

// Coefficients are the named tuning constants behind every heuristic formula.
// None of them is hardcoded at a call site; the properties file can replace
// any of them without rebuilding.
type Coefficients struct {
	// Per-room-type base load (kW), drawn even in an empty room.
	BaseLoadKW map[campus.RoomType]float64

	// Equipment draws (kW).
	LightsKW      float64
	ACBaseKW      float64
	ACPerDegreeKW float64 // extra draw per °C the setpoint sits below outdoor temp
	FansKW        float64
	ProjectorKW   float64
	PerComputerKW float64
	PerOccupantKW float64

	// Water (L/h) per occupant, scaled by a time-of-day factor.
	WaterPerOccupantLPH map[campus.RoomType]float64
	WaterBucketFactor   map[campus.TimeBucket]float64

	// CO2 conversion applied to energy (kg CO2 per kWh).
	CO2KgPerKWh float64

	// Comfort band; cooling below ComfortLowC counts as overcooling waste.
	ComfortLowC  float64
	ComfortHighC float64

	// Setpoint sanity band; outside it the room is flagged, not rejected.
	SetpointMinC float64
	SetpointMaxC float64

	// Relative disagreement tolerated between the reasoning service's energy
	// figure and the heuristic one before both are surfaced.
	InferenceTolerancePct float64

	// Critical-building thresholds.
	EnergyPerOccupantKW float64
	HighWastePct        float64

	// Campus recommendation cap and electricity price.
	MaxCampusRecommendations int
	PricePerKWh              float64
}

// Config holds runtime configuration for the analyzer service.
type Config struct {
	HTTPBind       string
	LogPath        string
	AllowedOrigins []string

	// Reasoning service; empty URL means heuristic-only for every run.
	ReasoningURL     string
	ReasoningModel   string
	ReasoningAPIKey  string
	ReasoningTimeout time.Duration
	BreakerFailures  int
	BreakerReset     time.Duration

	// Optional campus-report publishing.
	KafkaBrokers []string
	ReportTopic  string

	ScenariosPath  string
	PropertiesPath string

	// Defaults used when a request leaves topology or parameters unset.
	DefaultTopology campus.Topology
	DefaultGlobal   campus.GlobalParams
	DefaultTier     string

	Coeffs Coefficients
}

// DefaultCoefficients returns the tuned heuristic constants. Base loads,
// water rates and the 0.12 $/kWh / 0.5 kg/kWh conversions follow the
// measured campus profiles.
func DefaultCoefficients() Coefficients {
	return Coefficients{
		BaseLoadKW: map[campus.RoomType]float64{
			campus.RoomClassroom: 2.0,
			campus.RoomLab:       8.0,
			campus.RoomLibrary:   3.0,
			campus.RoomDorm:      1.5,
			campus.RoomBathroom:  1.0,
			campus.RoomCafeteria: 15.0,
		},
		LightsKW:      0.5,
		ACBaseKW:      1.2,
		ACPerDegreeKW: 0.15,
		FansKW:        0.2,
		ProjectorKW:   0.3,
		PerComputerKW: 0.2,
		PerOccupantKW: 0.1,
		WaterPerOccupantLPH: map[campus.RoomType]float64{
			campus.RoomClassroom: 0.5,
			campus.RoomLab:       2.5,
			campus.RoomLibrary:   0.5,
			campus.RoomDorm:      4.0,
			campus.RoomBathroom:  6.0,
			campus.RoomCafeteria: 10.0,
		},
		WaterBucketFactor: map[campus.TimeBucket]float64{
			campus.BucketMorning:   1.2,
			campus.BucketAfternoon: 1.0,
			campus.BucketEvening:   0.8,
			campus.BucketNight:     0.3,
		},
		CO2KgPerKWh:              0.5,
		ComfortLowC:              22.0,
		ComfortHighC:             26.0,
		SetpointMinC:             16.0,
		SetpointMaxC:             30.0,
		InferenceTolerancePct:    25.0,
		EnergyPerOccupantKW:      1.5,
		HighWastePct:             30.0,
		MaxCampusRecommendations: 7,
		PricePerKWh:              0.12,
	}
}

// Load builds the configuration from environment variables, then lets the
// optional properties file override individual coefficients.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPBind:         getEnv("HTTP_BIND", ":8000"),
		LogPath:          os.Getenv("LOG_PATH"),
		AllowedOrigins:   splitAndTrim(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000"), ","),
		ReasoningURL:     os.Getenv("REASONING_URL"),
		ReasoningModel:   getEnv("REASONING_MODEL", "llama-3.3-70b-versatile"),
		ReasoningAPIKey:  os.Getenv("REASONING_API_KEY"),
		ReasoningTimeout: getEnvDur("REASONING_TIMEOUT", 10*time.Second),
		BreakerFailures:  getEnvInt("BREAKER_MAX_FAILURES", 3),
		BreakerReset:     getEnvDur("BREAKER_RESET_TIMEOUT", 30*time.Second),
		KafkaBrokers:     splitAndTrim(os.Getenv("KAFKA_BROKERS"), ","),
		ReportTopic:      getEnv("REPORT_TOPIC", "campus.reports"),
		ScenariosPath:    getEnv("SCENARIOS_PATH", "./configs/scenarios.yaml"),
		PropertiesPath:   getEnv("PROPERTIES_PATH", "./configs/ecoagent.properties"),
		DefaultTier:      getEnv("BUDGET_TIER", "medium"),
		DefaultTopology: campus.Topology{
			Buildings:        getEnvInt("DEFAULT_BUILDINGS", 3),
			RoomsPerBuilding: getEnvInt("DEFAULT_ROOMS_PER_BUILDING", 6),
		},
		DefaultGlobal: campus.GlobalParams{
			Type:         campus.RoomClassroom,
			Capacity:     30,
			Occupancy:    12,
			Equipment:    campus.Equipment{Lights: true, AC: true},
			ACSetpointC:  23.0,
			OutdoorTempC: 30.0,
			Hour:         14,
		},
		Coeffs: DefaultCoefficients(),
	}

	if err := cfg.loadProperties(cfg.PropertiesPath); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadProperties applies coefficient overrides from a properties file. A
// missing file is fine; a present but unreadable one is not.
func (c *Config) loadProperties(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("cannot open properties file %s: %w", path, err)
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		c.applyProperty(strings.TrimSpace(k), strings.TrimSpace(v))
	}
	return s.Err()
}

func (c *Config) applyProperty(k, v string) {
	setf := func(dst *float64) {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
	switch k {
	case "lights_kw":
		setf(&c.Coeffs.LightsKW)
	case "ac_base_kw":
		setf(&c.Coeffs.ACBaseKW)
	case "ac_per_degree_kw":
		setf(&c.Coeffs.ACPerDegreeKW)
	case "fans_kw":
		setf(&c.Coeffs.FansKW)
	case "projector_kw":
		setf(&c.Coeffs.ProjectorKW)
	case "per_computer_kw":
		setf(&c.Coeffs.PerComputerKW)
	case "per_occupant_kw":
		setf(&c.Coeffs.PerOccupantKW)
	case "co2_kg_per_kwh":
		setf(&c.Coeffs.CO2KgPerKWh)
	case "comfort_low_c":
		setf(&c.Coeffs.ComfortLowC)
	case "comfort_high_c":
		setf(&c.Coeffs.ComfortHighC)
	case "setpoint_min_c":
		setf(&c.Coeffs.SetpointMinC)
	case "setpoint_max_c":
		setf(&c.Coeffs.SetpointMaxC)
	case "inference_tolerance_pct":
		setf(&c.Coeffs.InferenceTolerancePct)
	case "critical_energy_per_occupant_kw":
		setf(&c.Coeffs.EnergyPerOccupantKW)
	case "high_waste_pct":
		setf(&c.Coeffs.HighWastePct)
	case "price_per_kwh":
		setf(&c.Coeffs.PricePerKWh)
	case "max_campus_recommendations":
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Coeffs.MaxCampusRecommendations = n
		}
	default:
		// Per-room-type overrides: base_kw.<type>=f, water_lph.<type>=f
		if t, ok := strings.CutPrefix(k, "base_kw."); ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.Coeffs.BaseLoadKW[campus.RoomType(t)] = f
			}
		} else if t, ok := strings.CutPrefix(k, "water_lph."); ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.Coeffs.WaterPerOccupantLPH[campus.RoomType(t)] = f
			}
		}
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvDur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s, sep string) []string {
	var out []string
	for _, p := range strings.Split(s, sep) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

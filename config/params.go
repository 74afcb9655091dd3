package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// StructureParams tunes the market-structure engine.
type StructureParams struct {
	HistoryCapacity       int     `yaml:"history_capacity" default:"4000" validate:"gte=1"`
	StructureWindow       int     `yaml:"structure_window" default:"120" validate:"gte=3"`
	SwingHalfWidth        int     `yaml:"swing_half_width" default:"10" validate:"gte=1"`
	ZoneKeep              int     `yaml:"zone_keep" default:"40" validate:"gte=1"`
	BoxWidth              float64 `yaml:"box_width" default:"2.5" validate:"gt=0"`
	ATRPeriod             int     `yaml:"atr_period" default:"14" validate:"gte=1"`
	TrendMAPeriod         int     `yaml:"trend_ma_period" default:"6" validate:"gte=1"`
	TrendMAType           string  `yaml:"trend_ma_type" default:"SMA" validate:"oneof=SMA EMA"`
	ToleranceFactor       float64 `yaml:"tolerance_factor" default:"0.2" validate:"gt=0"`
	ConfirmationFactor    float64 `yaml:"confirmation_factor" default:"0.15" validate:"gte=0"`
	ConfirmationLookahead int     `yaml:"confirmation_lookahead" default:"3" validate:"gte=1"`
	RetestDeadline        int64   `yaml:"retest_deadline" default:"300" validate:"gte=1"`
}

// MoneyParams tunes stake sizing and pauses.
type MoneyParams struct {
	BaseStake            float64       `yaml:"base_stake" default:"100" validate:"gt=0"`
	MartingaleMultiplier float64       `yaml:"martingale_multiplier" default:"2.0" validate:"gte=1"`
	ProfitTarget         float64       `yaml:"profit_target" default:"10000" validate:"gt=0"`
	ProfitCooldown       time.Duration `yaml:"profit_cooldown" default:"5h" validate:"gte=0"`
	TradeSpacing         time.Duration `yaml:"trade_spacing" default:"600ms" validate:"gte=0"`
}

// ContractParams describes the binary contract bought on each signal.
type ContractParams struct {
	Duration     int     `yaml:"duration" default:"5" validate:"gte=1"`
	DurationUnit string  `yaml:"duration_unit" default:"t" validate:"oneof=t s m h d"`
	BarrierBuy   float64 `yaml:"barrier_buy" default:"0.7777"`
	BarrierSell  float64 `yaml:"barrier_sell" default:"0.7777"`
	Currency     string  `yaml:"currency" default:"USD" validate:"len=3"`
}

// Params groups every tunable trading parameter. It can be loaded from a
// YAML file; fields left out of the file take their defaults.
type Params struct {
	Structure StructureParams `yaml:"structure"`
	Money     MoneyParams     `yaml:"money"`
	Contract  ContractParams  `yaml:"contract"`
}

var validate = validator.New()

// DefaultParams returns the built-in trading parameters.
func DefaultParams() (*Params, error) {
	p := &Params{}
	if err := defaults.Set(p); err != nil {
		return nil, fmt.Errorf("set default params: %w", err)
	}
	return p, nil
}

// LoadParams reads trading parameters from a YAML file. An empty path
// returns the defaults.
func LoadParams(path string) (*Params, error) {
	p := &Params{}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read params: %w", err)
		}
		if err := yaml.Unmarshal(b, p); err != nil {
			return nil, fmt.Errorf("parse params: %w", err)
		}
	}
	if err := defaults.Set(p); err != nil {
		return nil, fmt.Errorf("set default params: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("validate params: %w", err)
	}
	return p, nil
}

// Validate checks field constraints and reports every violation at once.
func (p *Params) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

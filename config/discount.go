package config

type Discount struct {
	// 享有優惠的推薦 ticket
	Tickets []string `mapstructure:"TICKETS" json:"tickets" yaml:"tickets"`
}

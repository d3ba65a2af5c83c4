package config

type Notifications struct {
	SendgridAPIKey    string `env:"SENDGRID_API_KEY"`
	SendgridFromEmail string `env:"SENDGRID_FROM_EMAIL" envDefault:"no-reply@keystone.example.com"`
	SendgridSandbox   bool   `env:"SENDGRID_SANDBOX" envDefault:"false"`

	TwilioAccountSID string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	TwilioFromPhone  string `env:"TWILIO_FROM_PHONE"`
}

func (n Notifications) SendgridEnabled() bool { return n.SendgridAPIKey != "" }

func (n Notifications) TwilioEnabled() bool {
	return n.TwilioAccountSID != "" && n.TwilioAuthToken != "" && n.TwilioFromPhone != ""
}

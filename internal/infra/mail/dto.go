package mail

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
}

type ConfirmationEmailData struct {
	EventName    string
	IsProgrammer bool
}

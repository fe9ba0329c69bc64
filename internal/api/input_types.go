package api

type credentialsInput struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

type habitInput struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Frequency    string `json:"frequency"`
	ScheduleDays []int  `json:"schedule_days"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Timezone     string `json:"timezone"`
	ReminderTime string `json:"reminder_time"`
	Active       *bool  `json:"active"`
}

type entryInput struct {
	Date            string `json:"date"`
	Status          string `json:"status"`
	PercentComplete *int   `json:"percent_complete"`
	Notes           string `json:"notes"`
}

type notificationSettingsInput struct {
	RemindersOptIn *bool  `json:"reminders_opt_in"`
	Timezone       string `json:"timezone"`
	TelegramChatID string `json:"telegram_chat_id"`
}

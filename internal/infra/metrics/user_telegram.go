package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		usersSeenTotal,
		telegramCommandsReceivedTotal,
		linksRejectedTotal,
	)
}

var (
	usersSeenTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "users_seen_total",
			Help: "Total number of distinct users that talked to the bot.",
		},
	)

	telegramCommandsReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_commands_received_total",
			Help: "Counts incoming messages and commands from users.",
		},
		[]string{"command"},
	)

	linksRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "links_rejected_total",
			Help: "Messages that were not a supported Instagram link.",
		},
	)
)

func IncUsersSeen() {
	usersSeenTotal.Inc()
}

func IncTelegramCommand(command string) {
	telegramCommandsReceivedTotal.WithLabelValues(norm(command)).Inc()
}

func IncLinkRejected() {
	linksRejectedTotal.Inc()
}

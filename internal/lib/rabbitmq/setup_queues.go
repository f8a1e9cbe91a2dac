package rabbitmq

// ExchangeTutors - direct‑обменник, через который ходят события онбординга.
const ExchangeTutors = "tutors"

// Ключи маршрутизации и очереди обменника tutors.
const (
	RoutingApplicationSubmitted = "application.submitted"
	RoutingReviewDecided        = "review.decided"

	QueueApplications = "tutors.applications"
	QueueReview       = "tutors.review"
)

// QueueConfig описывает очередь и ключ, которым она привязана к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetTutorQueues возвращает очереди, которые объявляются при старте сервисов.
func GetTutorQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueApplications, RoutingKey: RoutingApplicationSubmitted},
		{QueueName: QueueReview, RoutingKey: RoutingReviewDecided},
	}
}

//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/shravastee-thakur/stayease/internal/application"
	bookingEvents "github.com/shravastee-thakur/stayease/internal/events"
	"github.com/shravastee-thakur/stayease/internal/repository"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// bookingStack holds wired-up booking service components.
type bookingStack struct {
	Service         *application.BookingService
	Consumer        *bookingEvents.PaymentEventConsumer
	CleanupProducer func()
}

// setupContainers starts PostgreSQL and Kafka testcontainers and returns a connected GORM DB.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_booking",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test_booking sslmode=disable", pgHost, pgPort.Port())

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	// Migrate the schema and install the overlap exclusion constraint.
	require.NoError(t, db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error)
	require.NoError(t, db.AutoMigrate(
		&repository.HotelModel{},
		&repository.RoomModel{},
		&repository.BookingModel{},
	))
	require.NoError(t, db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error)
	require.NoError(t, db.Exec(`
		ALTER TABLE bookings
		ADD CONSTRAINT room_no_overlap
		EXCLUDE USING gist (
			room_id WITH =,
			daterange(start_date, end_date) WITH &&
		)
		WHERE (status IN ('pending', 'confirmed'))
	`).Error)

	// Start Kafka container using confluent-local (supports KRaft natively).
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	// Pre-create required topics.
	createTopics(t, kafkaBrokers,
		bookingEvents.TopicBookingEvents,
		bookingEvents.TopicPaymentEvents,
		bookingEvents.TopicNotificationEvents,
	)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupBookingStack wires up the full booking service stack.
func setupBookingStack(t *testing.T, db *gorm.DB, brokers []string) *bookingStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	bookingRepo := repository.NewGormBookingRepository(db)
	hotelRepo := repository.NewGormHotelRepository(db)
	roomRepo := repository.NewGormRoomRepository(db)
	producer := bookingEvents.NewProducer(brokers, logger)
	bookingSvc := application.NewBookingService(bookingRepo, hotelRepo, roomRepo, producer, logger)

	groupID := fmt.Sprintf("test-booking-%s", uuid.New().String()[:8])
	consumer := bookingEvents.NewPaymentEventConsumer(brokers, groupID, bookingEvents.TopicPaymentEvents, bookingSvc, logger)

	return &bookingStack{
		Service:         bookingSvc,
		Consumer:        consumer,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// seedHotelAndRoom inserts a hotel with one room and returns their IDs.
func seedHotelAndRoom(t *testing.T, db *gorm.DB, pricePerNightCents int64) (uuid.UUID, uuid.UUID) {
	t.Helper()
	now := time.Now().UTC()

	hotel := repository.HotelModel{
		ID:        uuid.New(),
		Name:      "Test Hotel",
		City:      "Lisbon",
		Address:   "1 Test Square",
		Rating:    4.5,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, db.Create(&hotel).Error, "failed to seed hotel")

	room := repository.RoomModel{
		ID:                 uuid.New(),
		HotelID:            hotel.ID,
		RoomType:           "double",
		PricePerNightCents: pricePerNightCents,
		MaxPeople:          2,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	require.NoError(t, db.Create(&room).Error, "failed to seed room")

	return hotel.ID, room.ID
}

// seedBooking inserts a booking with the given status and stay dates.
func seedBooking(t *testing.T, db *gorm.DB, bookingID, userID, roomID, hotelID uuid.UUID, status, startDate, endDate string) {
	t.Helper()
	now := time.Now().UTC()

	start, err := time.Parse("2006-01-02", startDate)
	require.NoError(t, err)
	end, err := time.Parse("2006-01-02", endDate)
	require.NoError(t, err)

	model := repository.BookingModel{
		ID:               bookingID,
		UserID:           userID,
		RoomID:           roomID,
		HotelID:          hotelID,
		StartDate:        start,
		EndDate:          end,
		TotalAmountCents: 30000,
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	require.NoError(t, db.Create(&model).Error, "failed to seed booking")
}

// publishTestEvent publishes a CloudEvent to Kafka.
func publishTestEvent(t *testing.T, brokers []string, topic, eventType, subject string, data interface{}) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	producer := bookingEvents.NewProducer(brokers, logger)
	defer func() { _ = producer.Close() }()

	err := producer.PublishEvent(context.Background(), topic, eventType, subject, data)
	require.NoError(t, err, "failed to publish event")
}

// waitForBookingStatus polls the bookings table until the status matches.
func waitForBookingStatus(t *testing.T, db *gorm.DB, bookingID uuid.UUID, expectedStatus string, timeout time.Duration) repository.BookingModel {
	t.Helper()
	var result repository.BookingModel
	require.Eventually(t, func() bool {
		var model repository.BookingModel
		err := db.Where("id = ?", bookingID).First(&model).Error
		if err != nil {
			return false
		}
		if model.Status == expectedStatus {
			result = model
			return true
		}
		return false
	}, timeout, 200*time.Millisecond, "booking did not transition to %s", expectedStatus)
	return result
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) bookingEvents.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := bookingEvents.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}

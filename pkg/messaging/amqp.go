package messaging

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"callinsight/pkg/analytics"
	"callinsight/pkg/metrics"
)

// ReportMessage is the envelope published for every completed analysis.
type ReportMessage struct {
	ReportID  string                    `json:"report_id"`
	Timestamp time.Time                 `json:"timestamp"`
	Report    *analytics.AnalysisReport `json:"report"`
}

// AMQPConfig holds AMQP client configuration
type AMQPConfig struct {
	URL        string
	QueueName  string
	RoutingKey string
	Durable    bool
}

// AMQPPublisher delivers analysis reports to an AMQP queue. The publisher
// is optional infrastructure; when disconnected, Publish fails without
// affecting the analysis pipeline.
type AMQPPublisher struct {
	logger    *logrus.Entry
	config    AMQPConfig
	conn      *amqp.Connection
	channel   *amqp.Channel
	connected bool
	connMutex sync.RWMutex
	stopChan  chan struct{}
}

// NewAMQPPublisher creates a publisher for the given queue.
func NewAMQPPublisher(logger *logrus.Logger, config AMQPConfig) *AMQPPublisher {
	if config.RoutingKey == "" {
		config.RoutingKey = config.QueueName
	}
	config.Durable = true

	return &AMQPPublisher{
		logger:   logger.WithField("component", "amqp_publisher"),
		config:   config,
		stopChan: make(chan struct{}),
	}
}

// Connect establishes the connection and declares the queue.
func (p *AMQPPublisher) Connect() error {
	p.connMutex.Lock()
	defer p.connMutex.Unlock()

	if p.connected {
		return nil
	}
	if p.config.URL == "" || p.config.QueueName == "" {
		return fmt.Errorf("AMQP URL or queue name not configured")
	}

	conn, err := amqp.DialConfig(p.config.URL, amqp.Config{Dial: amqp.DefaultDial(5 * time.Second)})
	if err != nil {
		if metrics.IsMetricsEnabled() && metrics.AMQPConnectionErrors != nil {
			metrics.AMQPConnectionErrors.WithLabelValues("dial").Inc()
		}
		return fmt.Errorf("failed to connect to AMQP server: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		if metrics.IsMetricsEnabled() && metrics.AMQPConnectionErrors != nil {
			metrics.AMQPConnectionErrors.WithLabelValues("channel").Inc()
		}
		return fmt.Errorf("failed to open AMQP channel: %w", err)
	}

	if _, err := channel.QueueDeclare(
		p.config.QueueName,
		p.config.Durable, // Durable
		false,            // Delete when unused
		false,            // Exclusive
		false,            // No-wait
		nil,              // Arguments
	); err != nil {
		channel.Close()
		conn.Close()
		if metrics.IsMetricsEnabled() && metrics.AMQPConnectionErrors != nil {
			metrics.AMQPConnectionErrors.WithLabelValues("queue_declare").Inc()
		}
		return fmt.Errorf("failed to declare AMQP queue: %w", err)
	}

	p.conn = conn
	p.channel = channel
	p.connected = true
	p.stopChan = make(chan struct{})

	if metrics.IsMetricsEnabled() && metrics.AMQPConnectionStatus != nil {
		metrics.AMQPConnectionStatus.Set(1)
	}

	p.logger.WithFields(logrus.Fields{
		"queue": p.config.QueueName,
	}).Info("Connected to AMQP server")

	go p.monitorConnection()

	return nil
}

// monitorConnection watches for server-side closes and retries with
// backoff until Disconnect is called.
func (p *AMQPPublisher) monitorConnection() {
	closeChan := make(chan *amqp.Error, 1)
	p.connMutex.RLock()
	if p.conn != nil {
		p.conn.NotifyClose(closeChan)
	}
	stop := p.stopChan
	p.connMutex.RUnlock()

	select {
	case <-stop:
		return
	case amqpErr := <-closeChan:
		if amqpErr == nil {
			return
		}
		p.logger.WithField("reason", amqpErr.Reason).Warn("AMQP connection closed, reconnecting")

		p.connMutex.Lock()
		p.connected = false
		p.connMutex.Unlock()

		if metrics.IsMetricsEnabled() && metrics.AMQPConnectionStatus != nil {
			metrics.AMQPConnectionStatus.Set(0)
		}

		backoff := time.Second
		for {
			select {
			case <-stop:
				return
			case <-time.After(backoff):
			}

			if err := p.Connect(); err == nil {
				return
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
		}
	}
}

// PublishReport serializes and publishes a completed analysis report.
func (p *AMQPPublisher) PublishReport(report *analytics.AnalysisReport) error {
	p.connMutex.RLock()
	connected := p.connected
	channel := p.channel
	p.connMutex.RUnlock()

	if !connected || channel == nil {
		return fmt.Errorf("not connected to AMQP server")
	}

	msg := ReportMessage{
		ReportID:  uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Report:    report,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal report message: %w", err)
	}

	err = channel.Publish(
		"",                  // Exchange
		p.config.RoutingKey, // Routing key
		false,               // Mandatory
		false,               // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    msg.Timestamp,
			MessageId:    msg.ReportID,
			Body:         body,
		},
	)

	if metrics.IsMetricsEnabled() && metrics.AMQPPublishedMessages != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.AMQPPublishedMessages.WithLabelValues(p.config.QueueName, status).Inc()
	}

	if err != nil {
		return fmt.Errorf("failed to publish report: %w", err)
	}
	return nil
}

// IsConnected returns the connection status
func (p *AMQPPublisher) IsConnected() bool {
	p.connMutex.RLock()
	defer p.connMutex.RUnlock()
	return p.connected
}

// Disconnect closes the AMQP connection and stops the reconnect monitor.
// It must signal the monitor even when the connection has already dropped,
// otherwise the backoff loop would keep retrying after shutdown.
func (p *AMQPPublisher) Disconnect() {
	p.connMutex.Lock()
	defer p.connMutex.Unlock()

	select {
	case <-p.stopChan:
	default:
		close(p.stopChan)
	}

	if !p.connected {
		return
	}

	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}

	p.connected = false
	if metrics.IsMetricsEnabled() && metrics.AMQPConnectionStatus != nil {
		metrics.AMQPConnectionStatus.Set(0)
	}
	p.logger.Info("Disconnected from AMQP server")
}

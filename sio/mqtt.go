/* Copyright 2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sio

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// MQTTClient is the part of mqtt.Client that MQTT uses.
type MQTTClient interface {
	Connect() mqtt.Token
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTT is a Couplings for an MQTT client.
//
// Each message on a subscribed topic is an utterance.  Results are
// published to the utterance's ReplyTo topic if given and to
// OutTopic otherwise.
type MQTT struct {
	Client MQTTClient

	// Logger defaults to a no-op Logger.
	Logger *zap.Logger

	// Quiesce is the disconnection quiescence in milliseconds.
	Quiesce uint

	// SubTopics is a comma-separated list of topics, each with an
	// optional ":QOS" suffix.
	SubTopics string

	// OutTopic is the default topic (with optional ":QOS") for
	// Results.
	OutTopic string

	// InTimeout is how long to wait to queue an incoming message.
	InTimeout time.Duration

	ctx      context.Context
	cancel   context.CancelFunc
	incoming chan *Utterance
	outbound chan *Result
	done     chan bool
	wg       sync.WaitGroup
}

// NewMQTT makes an MQTT Couplings for a client.
func NewMQTT(client MQTTClient, subTopics, outTopic string) *MQTT {
	return &MQTT{
		Client:    client,
		Quiesce:   100,
		SubTopics: subTopics,
		OutTopic:  outTopic,
		InTimeout: time.Second,
	}
}

func (c *MQTT) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// inHandler is a Paho publish handler for messages sent to us due to
// our subscriptions.
func (c *MQTT) inHandler(client mqtt.Client, msg mqtt.Message) {
	var (
		log     = c.logger()
		payload = msg.Payload()
		topic   = msg.Topic()
	)
	log.Debug("incoming", zap.String("topic", topic), zap.ByteString("payload", payload))

	u, err := ParseUtterance(string(payload))
	if err != nil {
		log.Warn("bad input", zap.String("topic", topic), zap.Error(err))
		return
	}

	to := time.NewTimer(c.InTimeout)
	defer to.Stop()

	select {
	case <-c.ctx.Done():
		log.Debug("not forwarding due to ctx.Done()")
	case c.incoming <- u:
	case <-to.C:
		log.Warn("not forwarding due to stall", zap.String("topic", topic))
	}
}

// Start connects to the broker and subscribes.
func (c *MQTT) Start(ctx context.Context) error {
	log := c.logger()

	c.ctx, c.cancel = context.WithCancel(ctx)
	c.incoming = make(chan *Utterance)
	c.outbound = make(chan *Result)
	c.done = make(chan bool)

	if token := c.Client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Info("connected to broker")

	for _, topic := range strings.Split(c.SubTopics, ",") {
		topic, qos := ParseTopic(topic)
		if topic == "" {
			continue
		}
		log.Info("subscribing", zap.String("topic", topic), zap.Uint8("qos", qos))
		if t := c.Client.Subscribe(topic, qos, c.inHandler); t.Wait() && t.Error() != nil {
			return t.Error()
		}
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.outLoop(c.ctx); err != nil {
			log.Error("outLoop", zap.Error(err))
		}
	}()

	return nil
}

// IO returns the channels that Start() initialized.
func (c *MQTT) IO(ctx context.Context) (chan *Utterance, chan *Result, chan bool, error) {
	return c.incoming, c.outbound, c.done, nil
}

// outLoop publishes Results.
func (c *MQTT) outLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case r := <-c.outbound:
			if r == nil {
				return nil
			}
			topic, qos := ParseTopic(c.OutTopic)
			if r.ReplyTo != "" {
				topic, qos = ParseTopic(r.ReplyTo)
			}
			js, err := json.Marshal(r)
			if err != nil {
				return err
			}
			token := c.Client.Publish(topic, qos, false, js)
			if token.Wait() && token.Error() != nil {
				return token.Error()
			}
		}
	}
}

// Stop terminates the MQTT session.
func (c *MQTT) Stop(ctx context.Context) error {
	c.logger().Info("disconnecting")
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	c.Client.Disconnect(c.Quiesce)
	return nil
}

// ParseTopic extracts the QoS from a topic of the form TOPIC:QOS.
// Without a QoS suffix, the QoS is zero.
func ParseTopic(s string) (string, byte) {
	s = strings.TrimSpace(s)
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return s, 0
	}
	var qos byte
	if _, err := fmt.Sscanf(s[i+1:], "%d", &qos); err != nil || 2 < qos {
		return s, 0
	}
	return s[:i], qos
}

// MQTTOptions follow mosquitto_sub command line args.
type MQTTOptions struct {
	Broker    string
	Port      int
	ClientId  string
	KeepAlive time.Duration
	Username  string
	Password  string
	Reconnect bool
	Clean     bool

	WillTopic   string
	WillPayload string
	WillQoS     int
	WillRetain  bool

	CertFilename string
	KeyFilename  string
	CAFilename   string
	CAPath       string
	Insecure     bool
}

// ClientOptions makes Paho options for a client that sends
// everything it hears to the Couplings.
func (o *MQTTOptions) ClientOptions(logger *zap.Logger) (*mqtt.ClientOptions, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := mqtt.NewClientOptions()

	opts.AddBroker(fmt.Sprintf("%s:%d", o.Broker, o.Port))
	opts.SetClientID(o.ClientId)
	opts.SetKeepAlive(o.KeepAlive)
	opts.Username = o.Username
	opts.Password = o.Password
	opts.AutoReconnect = o.Reconnect
	opts.CleanSession = o.Clean

	if o.WillTopic != "" {
		if o.WillPayload == "" {
			return nil, fmt.Errorf("will topic %s without payload", o.WillTopic)
		}
		opts.WillEnabled = true
		opts.WillTopic = o.WillTopic
		opts.WillPayload = []byte(o.WillPayload)
		opts.WillRetained = o.WillRetain
		opts.WillQos = byte(o.WillQoS)
	}

	tlsConf := &tls.Config{
		InsecureSkipVerify: o.Insecure,
	}

	if o.CAFilename != "" {
		rootCAs, _ := x509.SystemCertPool()
		if rootCAs == nil {
			rootCAs = x509.NewCertPool()
		}
		filename := filepath.Join(o.CAPath, o.CAFilename)
		certs, err := os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		if ok := rootCAs.AppendCertsFromPEM(certs); !ok {
			logger.Warn("no certs appended", zap.String("filename", filename))
		}
		tlsConf.RootCAs = rootCAs
	}

	if o.KeyFilename != "" {
		cert, err := tls.LoadX509KeyPair(o.CertFilename, o.KeyFilename)
		if err != nil {
			return nil, err
		}
		tlsConf.Certificates = []tls.Certificate{cert}
	}

	opts.SetTLSConfig(tlsConf)

	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		logger.Warn("MQTT connection lost", zap.Error(err))
	}

	return opts, nil
}

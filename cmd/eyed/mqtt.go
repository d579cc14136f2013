package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTPublisher publishes exports to an MQTT broker, one topic per
// ritual under a configurable prefix.
type MQTTPublisher struct {
	Client  mqtt.Client
	Prefix  string
	QoS     byte
	Retain  bool
	Quiesce uint
}

func NewMQTTPublisher(args []string) (*MQTTPublisher, *flag.FlagSet) {
	var (
		// Follow mosquitto_pub command line args.

		fs = flag.NewFlagSet("mq", flag.ExitOnError)

		broker    = fs.String("h", "tcp://localhost", "Broker hostname")
		clientId  = fs.String("i", "eyed", "Client id")
		port      = fs.Int("p", 1883, "Broker port")
		keepAlive = fs.Int("k", 10, "Keep-alive in seconds")
		userName  = fs.String("u", "", "Username")
		password  = fs.String("P", "", "Password")
		reconnect = fs.Bool("reconnect", true, "Automatically attempt to reconnect")
		clean     = fs.Bool("c", true, "Clean session")
		quiesce   = fs.Int("quiesce", 100, "Disconnection quiescence (in milliseconds)")

		prefix = fs.String("prefix", "eye", "Topic prefix for published exports")
		qos    = fs.Int("qos", 0, "QoS for published exports")
		retain = fs.Bool("retain", true, "Retain published exports")
	)

	if args == nil {
		return nil, fs
	}

	fs.Parse(args)

	mqtt.ERROR = log.New(os.Stderr, "mqtt.error", 0)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("%s:%d", *broker, *port))
	opts.SetClientID(*clientId)
	opts.SetKeepAlive(time.Second * time.Duration(*keepAlive))
	opts.Username = *userName
	opts.Password = *password
	opts.AutoReconnect = *reconnect
	opts.CleanSession = *clean

	client := mqtt.NewClient(opts)
	if t := client.Connect(); t.Wait() && t.Error() != nil {
		log.Fatal(t.Error())
	}

	return &MQTTPublisher{
		Client:  client,
		Prefix:  *prefix,
		QoS:     byte(*qos),
		Retain:  *retain,
		Quiesce: uint(*quiesce),
	}, fs
}

func (p *MQTTPublisher) Publish(topic string, export map[string]string) error {
	js, err := json.Marshal(export)
	if err != nil {
		return err
	}
	t := p.Client.Publish(p.Prefix+"/"+topic, p.QoS, p.Retain, js)
	t.Wait()
	return t.Error()
}

func (p *MQTTPublisher) Close() error {
	p.Client.Disconnect(p.Quiesce)
	return nil
}

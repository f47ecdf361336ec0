package lib

import (
	"encoding/json"
	"log"
	"os"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

var kafkaProducer *kafka.Producer

func getKafkaProducer(clientId string) (*kafka.Producer, error) {
	if kafkaProducer != nil {
		return kafkaProducer, nil
	}
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BROKER"),
		"client.id":         clientId,
		"acks":              "all",
	})
	if err != nil {
		return nil, err
	}
	kafkaProducer = p
	return p, nil
}

func KafkaProduceMessage(clientId string, topic string, payload map[string]any) error {
	p, err := getKafkaProducer(clientId)
	if err != nil {
		log.Printf("Error creating kafka producer: %s\n", err.Error())
		return err
	}

	value, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error serializing kafka payload: %s\n", err.Error())
		return err
	}

	err = p.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          value,
	}, nil)
	if err != nil {
		log.Printf("Error producing message to %s: %s\n", topic, err.Error())
		return err
	}
	return nil
}

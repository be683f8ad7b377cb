// Package s3 предоставляет доступ к трекам, хранящимся в Amazon S3
package s3

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// ErrInvalidLocator возвращается для локатора не вида s3://bucket/key
var ErrInvalidLocator = errors.New("неверный локатор S3")

// Config содержит настройки для S3
type Config struct {
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string
	TTL       time.Duration // Время жизни подписанной ссылки
}

// Presigner выдает подписанные ссылки для потокового чтения объектов
type Presigner struct {
	client *s3.S3
	ttl    time.Duration
}

// NewPresigner создает клиент S3
func NewPresigner(config *Config) (*Presigner, error) {
	awsConfig := &aws.Config{
		Region: aws.String(config.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		),
	}

	// Если указан endpoint, добавляем его
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания AWS сессии: %w", err)
	}

	ttl := config.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &Presigner{
		client: s3.New(sess),
		ttl:    ttl,
	}, nil
}

// PresignURL возвращает временную ссылку на GET объекта
func (p *Presigner) PresignURL(bucket, key string) (string, error) {
	req, _ := p.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})

	url, err := req.Presign(p.ttl)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи запроса: %w", err)
	}
	return url, nil
}

// ParseLocator разбирает локатор s3://bucket/key
func ParseLocator(locator string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(locator, "s3://")
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidLocator, locator)
	}

	parts := strings.SplitN(rest, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidLocator, locator)
	}
	return parts[0], parts[1], nil
}

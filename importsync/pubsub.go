package importsync

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"

	"cloud.google.com/go/pubsub"
	"github.com/mmdatafocus/crm_backend/config"
	"github.com/mmdatafocus/crm_backend/models"
	"github.com/mmdatafocus/crm_backend/utils"
	"github.com/sirupsen/logrus"
)

func topicName() string {
	name := strings.TrimSpace(os.Getenv("IMPORT_SYNC_TOPIC"))
	if name == "" {
		name = "crm-import-sync"
	}
	return name
}

func subscriptionName() string {
	name := strings.TrimSpace(os.Getenv("IMPORT_SYNC_SUBSCRIPTION"))
	if name == "" {
		name = "crm-import-sync-worker"
	}
	return name
}

func PublishImportRun(ctx context.Context, runId uint) error {
	client, err := config.GetClient(ctx)
	if err != nil {
		return err
	}

	topic := client.Topic(topicName())
	if envBoolDefault("IMPORT_SYNC_CREATE_TOPIC", false) {
		topic, err = config.CreateTopicIfNotExists(client, topicName())
		if err != nil {
			return err
		}
	}

	data, _ := json.Marshal(ImportPubSubPayload{RunId: runId})
	res := topic.Publish(ctx, &pubsub.Message{Data: data})
	_, err = res.Get(ctx)
	return err
}

// TriggerImportRun records a queued run for a staged payload object and
// hands it to the worker.
func TriggerImportRun(ctx context.Context, payloadObject string, triggeredBy string, dryRun bool) (*models.ImportRun, error) {
	if strings.TrimSpace(payloadObject) == "" {
		return nil, errors.New("payload object is required")
	}

	run, err := models.CreateImportRun(ctx, payloadObject, triggeredBy, dryRun)
	if err != nil {
		return nil, err
	}
	if err := PublishImportRun(ctx, run.ID); err != nil {
		return nil, err
	}
	return run, nil
}

// RetryImportRun queues a fresh run over the same payload object, linked to
// the failed run it replays.
func RetryImportRun(ctx context.Context, runId uint) (*models.ImportRun, error) {
	db := config.GetDB()
	parent, err := models.GetImportRun(ctx, db, runId)
	if err != nil {
		return nil, err
	}
	if parent.Status != models.ImportRunStatusFailed && parent.Status != models.ImportRunStatusPartial {
		return nil, errors.New("only failed or partial runs can be retried")
	}

	run, err := models.CreateImportRun(ctx, parent.PayloadObject, models.ImportTriggeredRetry, parent.DryRun)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(run).Update("parent_run_id", parent.ID).Error; err != nil {
		return nil, err
	}
	if err := PublishImportRun(ctx, run.ID); err != nil {
		return nil, err
	}
	return run, nil
}

// RunImportWorker starts the pull subscription that drains queued import
// runs. Runs are processed one at a time; the run lock additionally guards
// against overlapping workers on other instances.
func RunImportWorker() error {
	logger := config.GetLogger()
	ctx := context.Background()
	client, err := config.GetClient(ctx)
	if err != nil {
		return err
	}

	topic, err := config.CreateTopicIfNotExists(client, topicName())
	if err != nil {
		return err
	}
	sub, err := config.CreateSubscriptionIfNotExists(client, subscriptionName(), topic)
	if err != nil {
		return err
	}
	sub.ReceiveSettings.MaxOutstandingMessages = 1

	callback := func(ctx context.Context, msg *pubsub.Message) {
		var payload ImportPubSubPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			config.LogError(logger, "pubsub.go", "RunImportWorker", "unmarshaling pubsub message", msg.Data, err)
			msg.Ack()
			return
		}

		ctx = utils.SetUserIdInContext(ctx, 0)
		ctx = utils.SetUserNameInContext(ctx, "System")
		ctx = utils.SetCorrelationIdInContext(ctx, msg.ID)
		if err := processImportRun(ctx, payload); err != nil {
			logger.WithFields(logrus.Fields{
				"field":      "ImportWorker",
				"run_id":     payload.RunId,
				"message_id": msg.ID,
			}).Error("import run processing failed: " + err.Error())
			msg.Nack()
			return
		}
		msg.Ack()
	}

	go func() {
		if err := sub.Receive(ctx, callback); err != nil {
			config.LogError(logger, "pubsub.go", "RunImportWorker", "failed to receive messages", nil, err)
		}
	}()

	return nil
}

func envBoolDefault(key string, def bool) bool {
	val := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch val {
	case "true", "1", "yes", "y", "on":
		return true
	case "false", "0", "no", "n", "off":
		return false
	default:
		return def
	}
}

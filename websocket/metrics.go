// Package websocket - websocket/metrics.go
// file: websocket/metrics.go

package websocket

import (
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"go-meet-hub/logger"
)

// Namespace for all MeetHub metrics
var metricsNamespace = "MeetHub"

// Reuse a single CloudWatch client for all metrics calls
var cwClient = cloudwatch.New(session.Must(session.NewSession()))

// PublishParticipantCount pushes the current participant count for a meeting
func PublishParticipantCount(count int, meetingID string) {
	putMetric("ParticipantCount", float64(count), "Count", meetingID)
}

// PublishWaitingRoomDepth pushes the number of queued participants
func PublishWaitingRoomDepth(depth int, meetingID string) {
	putMetric("WaitingRoomDepth", float64(depth), "Count", meetingID)
}

// PublishBroadcastBacklog pushes a gauge for broadcast queue depth
func PublishBroadcastBacklog(depth int, meetingID string) {
	putMetric("BroadcastQueueDepth", float64(depth), "Count", meetingID)
}

// -----------------------------------------------------------
// internal helper function to package up CloudWatch calls
// -----------------------------------------------------------
func putMetric(metricName string, value float64, unit string, meetingID string) {
	// without a region there is no CloudWatch endpoint to talk to
	if os.Getenv("AWS_REGION") == "" {
		logger.Debug.Printf("[putMetric] AWS_REGION unset; skipping metric %s", metricName)
		return
	}

	_, err := cwClient.PutMetricData(&cloudwatch.PutMetricDataInput{
		Namespace: aws.String(metricsNamespace),
		MetricData: []*cloudwatch.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Dimensions: []*cloudwatch.Dimension{
					{
						Name:  aws.String("MeetingID"),
						Value: aws.String(meetingID),
					},
				},
				Timestamp: aws.Time(time.Now()),
				Value:     aws.Float64(value),
				Unit:      aws.String(unit),
			},
		},
	})

	if err != nil {
		logger.Error.Printf("[putMetric] CloudWatch metric failed (%s): %v", metricName, err)
	}
}

package audit

import (
	"context"
	"log"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// InfluxLog mirrors audit entries into InfluxDB so the history store carries
// the control actions next to the sensor series.
type InfluxLog struct {
	writeAPI api.WriteAPIBlocking
}

func NewInfluxLog(writeAPI api.WriteAPIBlocking) *InfluxLog {
	return &InfluxLog{writeAPI: writeAPI}
}

func (l *InfluxLog) Append(ctx context.Context, entry Entry) error {
	ts, err := time.Parse(time.RFC3339, entry.Timestamp)
	if err != nil {
		ts = time.Now().UTC()
	}

	tags := map[string]string{
		"action": entry.Action,
		"user":   entry.User,
	}
	// at least one field so the point is valid
	fields := map[string]interface{}{
		"count": int64(1),
	}

	point := influxdb2.NewPoint("audit_event", tags, fields, ts)
	if err := l.writeAPI.WritePoint(ctx, point); err != nil {
		log.Printf("audit: influx write error: %v", err)
		return err
	}
	return nil
}

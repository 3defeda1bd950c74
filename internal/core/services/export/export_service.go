package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/blescope/blescope/internal/core/domain"
)

// Columns is the fixed external contract for record exports. Order and
// spelling must not change; absent fields are written as empty strings.
var Columns = []string{
	"tx_unix_ms(phone)",
	"rx_unix_ms(esp32)",
	"payload_counter",
	"delta_ms",
	"rssi_dbm",
	"tx_device_name",
}

// WriteCSV writes one row per complete record in emission order, with a
// constant sender device name column.
func WriteCSV(w io.Writer, records []domain.PacketRecord, deviceName string) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(Columns); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			formatInt64(r.TXUnixMs),
			formatInt64(r.RXUnixMs),
			formatInt(r.TXCounter),
			formatInt64(r.DeltaMs),
			formatInt(r.RSSIDbm),
			deviceName,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return writer.Error()
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatInt64(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

package orders

const (
	TopicOrderImported     = "order.imported"
	TopicStatementReceived = "bank.statement.received"
	TopicOrderVerified     = "order.payment.verified"
)

// Partition key = order code (statement id cho topic statement), giu thu tu
// event cua cung 1 don.
func PartitionKey(id string) []byte { return []byte(id) }

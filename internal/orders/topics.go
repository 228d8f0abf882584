package orders

const TopicOrderPlaced = "storefront.order.placed"

// Partition key = order id, so every event of one order stays in order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }

package realtime

const TopicProviders = "providers"

func ProviderTopic(providerID string) string { return "provider:" + providerID }

func ProviderOrdersTopic(providerID string) string { return "orders:" + providerID }

func UserOrdersTopic(uid string) string { return "orders:user:" + uid }

func ReviewsTopic(providerID string) string { return "reviews:" + providerID }

func UserTopic(uid string) string { return "users:" + uid }

func SessionTopic(uid string) string { return "session:" + uid }

package messages

// Reply 是 actor 对一次请求的统一应答，Err 非空时 Value 无意义。
type Reply struct {
	Value any
	Err   error
}

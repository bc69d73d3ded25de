package store

// SchemaSQL creates the inventory tables used by the forecasting pipeline.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS suppliers (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    reliability_score NUMERIC(4,3) NOT NULL DEFAULT 0.5 CHECK (reliability_score BETWEEN 0 AND 1),
    average_delivery_days NUMERIC(6,2) NOT NULL DEFAULT 7 CHECK (average_delivery_days >= 0),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS products (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    sku VARCHAR(100) NOT NULL UNIQUE,
    category VARCHAR(100) NOT NULL DEFAULT '',
    price NUMERIC(12,2) NOT NULL DEFAULT 0,
    stock_quantity INT NOT NULL DEFAULT 0,
    reorder_threshold INT NOT NULL DEFAULT 10,
    reorder_quantity INT NOT NULL DEFAULT 50,
    supplier_id BIGINT REFERENCES suppliers(id),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Per-product supplier pricing
CREATE TABLE IF NOT EXISTS product_suppliers (
    product_id BIGINT NOT NULL REFERENCES products(id),
    supplier_id BIGINT NOT NULL REFERENCES suppliers(id),
    unit_price NUMERIC(12,2) NOT NULL CHECK (unit_price > 0),
    PRIMARY KEY (product_id, supplier_id)
);

CREATE TABLE IF NOT EXISTS transactions (
    id BIGSERIAL PRIMARY KEY,
    product_id BIGINT NOT NULL REFERENCES products(id),
    quantity INT NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'completed',
    transaction_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_transactions_product_date ON transactions (product_id, transaction_date);

CREATE TABLE IF NOT EXISTS inventory_predictions (
    id BIGSERIAL PRIMARY KEY,
    product_id BIGINT NOT NULL REFERENCES products(id),
    predicted_demand INT NOT NULL,
    confidence_score DOUBLE PRECISION NOT NULL,
    trend_factor DOUBLE PRECISION NOT NULL,
    seasonality_factor DOUBLE PRECISION NOT NULL,
    horizon_days INT NOT NULL,
    ma_7 DOUBLE PRECISION NOT NULL DEFAULT 0,
    ma_30 DOUBLE PRECISION NOT NULL DEFAULT 0,
    generated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_predictions_product ON inventory_predictions (product_id, generated_at DESC);

CREATE TABLE IF NOT EXISTS reorder_suggestions (
    id BIGSERIAL PRIMARY KEY,
    product_id BIGINT NOT NULL REFERENCES products(id),
    suggested_quantity INT NOT NULL CHECK (suggested_quantity > 0),
    suggested_supplier_id BIGINT REFERENCES suppliers(id),
    urgency_score DOUBLE PRECISION NOT NULL,
    estimated_stockout_date DATE,
    reasoning TEXT NOT NULL DEFAULT '',
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_suggestions_status ON reorder_suggestions (status, urgency_score DESC);

CREATE TABLE IF NOT EXISTS alerts (
    id BIGSERIAL PRIMARY KEY,
    alert_type VARCHAR(50) NOT NULL,
    severity VARCHAR(20) NOT NULL,
    title VARCHAR(255) NOT NULL,
    message TEXT NOT NULL,
    entity_type VARCHAR(50) NOT NULL DEFAULT 'product',
    entity_id BIGINT NOT NULL,
    is_resolved BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_alerts_entity ON alerts (entity_type, entity_id, alert_type, created_at);
`

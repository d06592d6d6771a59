package sqlinline

const QInsertUser = `--sql 5a82e2ad-7b09-40c5-9d22-2d28db58c0f0
insert into users(id, email, password_hash, created_at, last_login_at)
values ($1::uuid, lower($2::text), $3::bytea, now(), now())
returning created_at, last_login_at;
`

const QSelectUserByID = `--sql 1239018e-4f5f-46a0-8f0d-81b2a3a5f0f8
select id, email, password_hash, created_at, last_login_at
from users
where id = $1::uuid
limit 1;
`

const QSelectUserByEmail = `--sql 4d6b2e8f-1a3c-47e5-9b0d-8f2c6a1e3d57
select id, email, password_hash, created_at, last_login_at
from users
where email = lower($1::text)
limit 1;
`

const QTouchUserLastLogin = `--sql c7f1a9d3-5e2b-4c80-a6f4-2b9e7d1c3a08
update users
set last_login_at = now()
where id = $1::uuid;
`
